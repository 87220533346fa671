package shipping

import "github.com/danjocayabyab/Furnihive-sub000/internal/domain"

// Weight thresholds in kilograms for the courier vehicle tiers.
const (
	motorcycleMaxKg = 3.0
	vanMaxKg        = 20.0
)

// ClassifyParcel maps total parcel weight to the vehicle class and pricing
// band a quote request is made against.
func ClassifyParcel(totalWeightKg float64) domain.Parcel {
	p := domain.Parcel{WeightKg: totalWeightKg}
	switch {
	case totalWeightKg <= motorcycleMaxKg:
		p.VehicleClass = domain.VehicleMotorcycle
		p.WeightBand = domain.WeightLight
	case totalWeightKg <= vanMaxKg:
		p.VehicleClass = domain.VehicleVan
		p.WeightBand = domain.WeightMedium
	default:
		p.VehicleClass = domain.VehicleTruck
		p.WeightBand = domain.WeightHeavy
	}
	return p
}
