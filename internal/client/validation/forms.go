package validation

import "github.com/voatnetwork/voat/internal/client/models"

var SignupMessages = Messages{
	"name":            "Name must be at least 2 characters",
	"email":           "Invalid email address",
	"role":            "Please select a role",
	"location":        "Please enter your location",
	"password":        "Password must be at least 6 characters",
	"confirmPassword": "Passwords don't match",
	"agreeToTerms":    "Please agree to the Terms & Conditions and Privacy Policy",
}

var ProfileMessages = Messages{
	"name":  "Name must be at least 2 characters",
	"email": "Invalid email address",
}

var LoginMessages = Messages{
	"email":    "Invalid email address",
	"password": "Please enter your password",
}

var PortfolioMessages = Messages{
	"name":               "Please fill out your full name",
	"email":              "Please fill out your email address",
	"profession":         "Please fill out your profession",
	"headline":           "Please fill out your professional headline",
	"about":              "Please fill out your about section",
	"workExperience":     "Please fill out your work experience",
	"serviceName":        "Please fill out your service name",
	"serviceDescription": "Please fill out your service description",
	"catalogueTags":      "Please add at least one catalogue tag",
	"portfolioGrid":      "Please add at least one portfolio entry with image and price",
}

// Signup returns an empty map iff the registration form is valid.
func (v *Validator) Signup(f models.SignupForm) models.ErrorMap {
	return v.Struct(f, SignupMessages)
}

func (v *Validator) Login(f models.LoginForm) models.ErrorMap {
	return v.Struct(f, LoginMessages)
}

func (v *Validator) Profile(f models.ProfileForm) models.ErrorMap {
	return v.Struct(f, ProfileMessages)
}

// Portfolio checks the form fields, that at least one catalogue tag is set
// and that at least one grid row has both media and a price.
func (v *Validator) Portfolio(s models.PortfolioSubmission) models.ErrorMap {
	errs := v.Struct(s.Form, PortfolioMessages)
	if len(s.Tags) == 0 {
		errs["catalogueTags"] = PortfolioMessages["catalogueTags"]
	}
	complete := false
	for _, row := range s.Grid {
		if row.Complete() {
			complete = true
			break
		}
	}
	if !complete {
		errs["portfolioGrid"] = PortfolioMessages["portfolioGrid"]
	}
	return errs
}
