package models

import (
	"time"

	"gorm.io/datatypes"
)

type Category string

const (
	CategoryBursary     Category = "bursary"
	CategoryInternship  Category = "internship"
	CategoryGraduate    Category = "graduate"
	CategoryLearnership Category = "learnership"
)

var Categories = []Category{CategoryBursary, CategoryInternship, CategoryGraduate, CategoryLearnership}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Eligibility struct {
	MinAge            int                         `json:"minAge,omitempty"`
	MaxAge            int                         `json:"maxAge,omitempty"`
	RequiredEducation string                      `json:"requiredEducation,omitempty"`
	RequiredFields    datatypes.JSONSlice[string] `json:"requiredFields,omitempty"`
	MinimumAverage    string                      `json:"minimumAverage,omitempty"`
	Citizenship       datatypes.JSONSlice[string] `json:"citizenship,omitempty"`
	YearOfStudy       datatypes.JSONSlice[int]    `json:"yearOfStudy,omitempty"`
	OtherRequirements string                      `json:"otherRequirements,omitempty"`
}

type Funding struct {
	Tuition       string `json:"tuition,omitempty"`
	Accommodation string `json:"accommodation,omitempty"`
	Allowance     string `json:"allowance,omitempty"`
}

type ApplyMethod struct {
	Type string `json:"type,omitempty"` // site, redirect
	URL  string `json:"url,omitempty"`
}

type ContactInfo struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

// Opportunity is a posted listing. ApplicationsCount is a cached value;
// the applications table is authoritative.
type Opportunity struct {
	Base
	Title               string                      `json:"title" gorm:"not null"`
	Description         string                      `json:"description" gorm:"type:text;not null"`
	Category            Category                    `json:"category" gorm:"size:20;not null;index:idx_opportunity_category_active"`
	Field               string                      `json:"field" gorm:"not null"`
	Provider            string                      `json:"provider" gorm:"not null"`
	Location            string                      `json:"location" gorm:"not null"`
	Eligibility         Eligibility                 `json:"eligibility" gorm:"embedded;embeddedPrefix:eligibility_"`
	Funding             Funding                     `json:"funding" gorm:"embedded;embeddedPrefix:funding_"`
	ApplicationDeadline time.Time                   `json:"applicationDeadline" gorm:"not null;index"`
	ApplicationProcess  string                      `json:"applicationProcess,omitempty" gorm:"type:text"`
	ApplyMethod         ApplyMethod                 `json:"applyMethod" gorm:"embedded;embeddedPrefix:apply_method_"`
	DocumentsRequired   datatypes.JSONSlice[string] `json:"documentsRequired"`
	Contact             ContactInfo                 `json:"contactInfo" gorm:"embedded;embeddedPrefix:contact_"`
	Rating              float64                     `json:"rating" gorm:"default:0;index"`
	ApplicationsCount   int64                       `json:"applicationsCount" gorm:"default:0"`
	Views               int64                       `json:"views" gorm:"default:0"`
	IsActive            bool                        `json:"isActive" gorm:"default:true;index:idx_opportunity_category_active"`
}

// IsOpenAt reports whether applications are still accepted at t.
func (o Opportunity) IsOpenAt(t time.Time) bool {
	return t.Before(o.ApplicationDeadline)
}
