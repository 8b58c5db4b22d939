// Package models defines the domain entities and report contracts.
package models

import "time"

// Agency is one isolated customer organization sharing the database with
// others. IDs are opaque integers assigned at provisioning time.
type Agency struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Landlord owns one or more properties managed by an agency.
type Landlord struct {
	ID       int64  `json:"id"`
	AgencyID int64  `json:"agencyId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// Property is a managed building belonging to a landlord.
type Property struct {
	ID         int64  `json:"id"`
	AgencyID   int64  `json:"agencyId"`
	LandlordID int64  `json:"landlordId"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Postcode   string `json:"postcode"`
}

// Room is a lettable unit within a property.
type Room struct {
	ID         int64  `json:"id"`
	AgencyID   int64  `json:"agencyId"`
	PropertyID int64  `json:"propertyId"`
	Name       string `json:"name"`
}

// Tenancy is an occupant's agreement for a room. EndDate is nil for
// open-ended tenancies.
type Tenancy struct {
	ID         int64      `json:"id"`
	AgencyID   int64      `json:"agencyId"`
	RoomID     int64      `json:"roomId"`
	TenantName string     `json:"tenantName"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	RentCents  int64      `json:"rentCents"`
}

// RentCharge is an amount due under a tenancy for a period.
type RentCharge struct {
	ID          int64     `json:"id"`
	AgencyID    int64     `json:"agencyId"`
	TenancyID   int64     `json:"tenancyId"`
	DueDate     time.Time `json:"dueDate"`
	AmountCents int64     `json:"amountCents"`
}

// RentPayment is money received against a tenancy.
type RentPayment struct {
	ID          int64     `json:"id"`
	AgencyID    int64     `json:"agencyId"`
	TenancyID   int64     `json:"tenancyId"`
	PaidAt      time.Time `json:"paidAt"`
	AmountCents int64     `json:"amountCents"`
}
