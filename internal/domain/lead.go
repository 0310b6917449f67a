package domain

import "time"

// City enumerates the supported intake cities.
type City string

const (
	CityChandigarh City = "Chandigarh"
	CityMohali     City = "Mohali"
	CityZirakpur   City = "Zirakpur"
	CityPanchkula  City = "Panchkula"
	CityOther      City = "Other"
)

// PropertyType enumerates property categories a buyer is after.
type PropertyType string

const (
	PropertyApartment PropertyType = "Apartment"
	PropertyVilla     PropertyType = "Villa"
	PropertyPlot      PropertyType = "Plot"
	PropertyOffice    PropertyType = "Office"
	PropertyRetail    PropertyType = "Retail"
)

// BHK enumerates bedroom configurations for residential property types.
type BHK string

const (
	BHKOne    BHK = "1"
	BHKTwo    BHK = "2"
	BHKThree  BHK = "3"
	BHKFour   BHK = "4"
	BHKStudio BHK = "Studio"
)

// Purpose enumerates why the buyer is looking.
type Purpose string

const (
	PurposeBuy  Purpose = "Buy"
	PurposeRent Purpose = "Rent"
)

// Timeline enumerates how soon the buyer intends to move.
type Timeline string

const (
	TimelineZeroToThree Timeline = "0-3m"
	TimelineThreeToSix  Timeline = "3-6m"
	TimelineMoreThanSix Timeline = ">6m"
	TimelineExploring   Timeline = "Exploring"
)

// LeadSource enumerates how the lead reached us.
type LeadSource string

const (
	SourceWebsite  LeadSource = "Website"
	SourceReferral LeadSource = "Referral"
	SourceWalkIn   LeadSource = "Walk-in"
	SourceCall     LeadSource = "Call"
	SourceOther    LeadSource = "Other"
)

// LeadStatus enumerates pipeline states for leads.
type LeadStatus string

const (
	StatusNew         LeadStatus = "New"
	StatusQualified   LeadStatus = "Qualified"
	StatusContacted   LeadStatus = "Contacted"
	StatusVisited     LeadStatus = "Visited"
	StatusNegotiation LeadStatus = "Negotiation"
	StatusConverted   LeadStatus = "Converted"
	StatusDropped     LeadStatus = "Dropped"
)

// Lead is the aggregate for buyer enquiries.
type Lead struct {
	ID           string
	FullName     string
	Email        *string
	Phone        string
	City         City
	PropertyType PropertyType
	BHK          *BHK
	Purpose      Purpose
	BudgetMin    *int64
	BudgetMax    *int64
	Timeline     Timeline
	Source       LeadSource
	Status       LeadStatus
	Notes        *string
	Tags         []string
	OwnerID      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
