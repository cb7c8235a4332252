package domain

import "time"

// AnnouncementType distinguishes requests for services from offers of them.
type AnnouncementType string

const (
	AnnouncementTypeSearch AnnouncementType = "search"
	AnnouncementTypeOffer  AnnouncementType = "offer"
)

// Valid reports whether t is a known announcement type.
func (t AnnouncementType) Valid() bool {
	return t == AnnouncementTypeSearch || t == AnnouncementTypeOffer
}

// Announcement is a public post owned by exactly one company.
type Announcement struct {
	ID           int64
	Title        string
	Description  string
	Type         AnnouncementType
	Requirements []string
	CompanyID    int64
	Company      *Company
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnedBy reports whether companyID owns the announcement.
func (a *Announcement) OwnedBy(companyID int64) bool {
	return a != nil && a.CompanyID == companyID
}
