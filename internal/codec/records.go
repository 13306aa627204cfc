// README: Stored record shapes. Pointer fields distinguish "missing" from zero values.
package codec

import "time"

type locationRecord struct {
	Name        *string   `json:"name"`
	Address     *string   `json:"address"`
	Coordinates []float64 `json:"coordinates"`
}

type tripRecord struct {
	Start        *locationRecord   `json:"_start"`
	End          *locationRecord   `json:"_end"`
	Intermediate *[]locationRecord `json:"_intermediate"`
}

// unitRecord is the taxi copy held by a booking.
type unitRecord struct {
	Name  *string `json:"_name"`
	Index *int    `json:"_index"`
	Rego  *string `json:"_rego"`
}

type bookingRecord struct {
	Name        *string     `json:"_name"`
	Trip        *tripRecord `json:"_trip"`
	BookingTime *time.Time  `json:"_bookingTime"`
	Time        *time.Time  `json:"_time"`
	Taxi        *unitRecord `json:"_taxi"`
	IsAdvanced  *bool       `json:"_isAdvanced"`
}

type ledgerRecord struct {
	Bookings *[]bookingRecord `json:"_bookings"`
}

// inventoryRecord is one row of the stored taxi list.
type inventoryRecord struct {
	Type      *string `json:"type"`
	Rego      *string `json:"rego"`
	Available *bool   `json:"available"`
}
