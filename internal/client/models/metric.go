package models

import (
	"errors"
	"math"
	"time"
)

// MetricInput is what a RoleA identity fills in on the entry form.
// The percentage is derived, never supplied.
type MetricInput struct {
	CompanyName      string
	NumberOfUsers    int
	NumberOfProducts int
	OwnerID          string
}

// MetricSubmission is one immutable company-metrics record.
type MetricSubmission struct {
	ID               string    `json:"id"`
	CompanyName      string    `json:"companyName"`
	NumberOfUsers    int       `json:"numberOfUsers"`
	NumberOfProducts int       `json:"numberOfProducts"`
	Percentage       float64   `json:"percentage"`
	OwnerID          string    `json:"userId"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Percentage returns users/products*100 rounded to two decimals, or 0 when
// there are no products.
func Percentage(users, products int) float64 {
	if products <= 0 {
		return 0
	}
	return math.Round(float64(users)/float64(products)*100*100) / 100
}

func (m MetricSubmission) Validate() error {
	switch {
	case m.ID == "":
		return errors.New("metric submission: empty id")
	case m.CreatedAt.IsZero():
		return errors.New("metric submission: missing createdAt")
	case m.NumberOfUsers < 0 || m.NumberOfProducts < 0:
		return errors.New("metric submission: negative counts")
	}
	return nil
}

func (m MetricSubmission) Timestamp() time.Time { return m.CreatedAt }
