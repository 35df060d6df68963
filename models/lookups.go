// models/lookups.go - lookup entities owned by the upstream backend
package models

import "strings"

// ApplicationStatus represents a row of the backend's application_status lookup.
type ApplicationStatus struct {
	ApplicationStatusID int    `json:"application_status_id"`
	StatusCode          string `json:"status_code"`
	StatusName          string `json:"status_name"`
}

// Year represents a fiscal year.
type Year struct {
	YearID int    `json:"year_id"`
	Year   string `json:"year"`
}

// Category represents a fund category.
type Category struct {
	CategoryID   int    `json:"category_id"`
	CategoryName string `json:"category_name"`
}

// Subcategory represents a fund subcategory.
type Subcategory struct {
	SubcategoryID   int    `json:"subcategory_id"`
	SubcategoryName string `json:"subcategory_name"`
	CategoryID      int    `json:"category_id"`
}

// User mirrors the applicant/admin identity fields the backend exposes.
type User struct {
	UserID    int    `json:"user_id"`
	UserFname string `json:"user_fname"`
	UserLname string `json:"user_lname"`
	Email     string `json:"email"`
}

// FullName joins first and last name, falling back to the email address.
func (u User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.UserFname) + " " + strings.TrimSpace(u.UserLname))
	if name == "" {
		return strings.TrimSpace(u.Email)
	}
	return name
}

// SubmissionUser links a co-author to a submission.
type SubmissionUser struct {
	UserID       int    `json:"user_id"`
	Role         string `json:"role"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
	User         *User  `json:"user,omitempty"`
}
