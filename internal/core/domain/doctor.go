package domain

import "errors"

var ErrDoctorNotFound = errors.New("doctor not found")

// Doctor is an independently managed directory profile. Consultations
// reference doctors but never own them.
type Doctor struct {
	ID             string  `json:"id" bson:"_id,omitempty"`
	Name           string  `json:"name" bson:"name"`
	Specialization string  `json:"specialization" bson:"specialization"`
	Experience     int     `json:"experience" bson:"experience"`
	Rating         float64 `json:"rating" bson:"rating"`
	Bio            string  `json:"bio" bson:"bio"`
	PhotoURL       string  `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	IsAvailable    bool    `json:"is_available" bson:"is_available"`
}
