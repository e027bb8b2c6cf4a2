package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleNormalUser Role = "normalUser"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleNormalUser
}

// User is a CodeStack member, keyed by email.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email             string             `bson:"email" json:"email"`
	Username          string             `bson:"username,omitempty" json:"username,omitempty"`
	Name              string             `bson:"name,omitempty" json:"name,omitempty"`
	Role              Role               `bson:"role" json:"role"`
	ImgURL            string             `bson:"imgURL,omitempty" json:"imgURL,omitempty"`
	Age               string             `bson:"age,omitempty" json:"age,omitempty"`
	Gender            string             `bson:"gender,omitempty" json:"gender,omitempty"`
	PortfolioURL      string             `bson:"portfolioURL,omitempty" json:"portfolioURL,omitempty"`
	Country           string             `bson:"country,omitempty" json:"country,omitempty"`
	City              string             `bson:"city,omitempty" json:"city,omitempty"`
	FacebookURL       string             `bson:"facebookURL,omitempty" json:"facebookURL,omitempty"`
	TwitterURL        string             `bson:"twitterURL,omitempty" json:"twitterURL,omitempty"`
	GithubURL         string             `bson:"githubURL,omitempty" json:"githubURL,omitempty"`
	Selected          []string           `bson:"selected,omitempty" json:"selected,omitempty"`
	AboutMe           string             `bson:"aboutMe,omitempty" json:"aboutMe,omitempty"`
	ManualLevelUpdate bool               `bson:"manualLevelUpdate" json:"manualLevelUpdate"`
	PasswordHash      string             `bson:"passwordHash,omitempty" json:"-"` // bcrypt; never serialized
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// Profile holds the fields a user may edit on their own profile.
// nil pointers leave the stored value untouched.
type Profile struct {
	Name         *string   `bson:"name,omitempty" json:"name,omitempty"`
	ImgURL       *string   `bson:"imgURL,omitempty" json:"imgURL,omitempty"`
	Age          *string   `bson:"age,omitempty" json:"age,omitempty"`
	Gender       *string   `bson:"gender,omitempty" json:"gender,omitempty"`
	PortfolioURL *string   `bson:"portfolioURL,omitempty" json:"portfolioURL,omitempty"`
	Country      *string   `bson:"country,omitempty" json:"country,omitempty"`
	City         *string   `bson:"city,omitempty" json:"city,omitempty"`
	FacebookURL  *string   `bson:"facebookURL,omitempty" json:"facebookURL,omitempty"`
	TwitterURL   *string   `bson:"twitterURL,omitempty" json:"twitterURL,omitempty"`
	GithubURL    *string   `bson:"githubURL,omitempty" json:"githubURL,omitempty"`
	Selected     *[]string `bson:"selected,omitempty" json:"selected,omitempty"`
	AboutMe      *string   `bson:"aboutMe,omitempty" json:"aboutMe,omitempty"`
}

// Apply copies every non-nil field of p onto u.
func (p Profile) Apply(u *User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.Name, p.Name)
	set(&u.ImgURL, p.ImgURL)
	set(&u.Age, p.Age)
	set(&u.Gender, p.Gender)
	set(&u.PortfolioURL, p.PortfolioURL)
	set(&u.Country, p.Country)
	set(&u.City, p.City)
	set(&u.FacebookURL, p.FacebookURL)
	set(&u.TwitterURL, p.TwitterURL)
	set(&u.GithubURL, p.GithubURL)
	set(&u.AboutMe, p.AboutMe)
	if p.Selected != nil {
		u.Selected = *p.Selected
	}
}

// IsEmpty reports whether p carries no field to update.
func (p Profile) IsEmpty() bool {
	return p == Profile{}
}
