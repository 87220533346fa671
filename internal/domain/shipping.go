package domain

// VehicleClass is the courier vehicle tier a parcel requires.
type VehicleClass string

const (
	VehicleMotorcycle VehicleClass = "MOTORCYCLE"
	VehicleVan        VehicleClass = "VAN"
	VehicleTruck      VehicleClass = "TRUCK"
)

// WeightBand is the courier pricing band derived from total parcel weight.
type WeightBand string

const (
	WeightLight  WeightBand = "LIGHT"
	WeightMedium WeightBand = "MEDIUM"
	WeightHeavy  WeightBand = "HEAVY"
)

// Parcel is the classification a quote request is priced against.
type Parcel struct {
	VehicleClass VehicleClass `json:"vehicle_class"`
	WeightBand   WeightBand   `json:"weight_band"`
	WeightKg     float64      `json:"weight_kg"`
}

// ShippingQuote is a priced delivery offer. It is valid only for the
// pickup/dropoff pair and parcel it was requested for.
type ShippingQuote struct {
	FeeAmount         int64    `json:"fee_amount"`
	DistanceMeters    int64    `json:"distance_meters"`
	ProviderReference string   `json:"provider_reference"`
	Dropoff           GeoPoint `json:"dropoff"`
	Parcel            Parcel   `json:"parcel"`
}

// MatchesDropoff reports whether the quote was priced for the given
// destination. A quote for a different dropoff is stale and must be
// re-requested.
func (q ShippingQuote) MatchesDropoff(p GeoPoint) bool {
	return q.Dropoff.Lat == p.Lat && q.Dropoff.Lng == p.Lng
}
