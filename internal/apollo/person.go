package apollo

import (
	"net/http"
	"strings"
)

type personEnrichParams struct {
	Email       string `param:"personEmail"`
	LinkedInURL string `param:"personLinkedInUrl"`
	ID          string `param:"personId"`
	FirstName   string `param:"personFirstName"`
	LastName    string `param:"personLastName"`
	Domain      string `param:"personDomain"`
}

// identified reports whether in carries enough to match one person.
func (in personEnrichParams) identified() bool {
	if in.Email != "" || in.LinkedInURL != "" || in.ID != "" {
		return true
	}
	return in.FirstName != "" && in.LastName != "" && in.Domain != ""
}

func (in *personEnrichParams) trim() {
	for _, s := range []*string{&in.Email, &in.LinkedInURL, &in.ID, &in.FirstName, &in.LastName, &in.Domain} {
		*s = strings.TrimSpace(*s)
	}
}

func buildPersonEnrich(p Params, index int) (Request, error) {
	var in personEnrichParams
	if err := decodeParams(personEnrichFields, p, &in); err != nil {
		return Request{}, &ItemError{Index: index, Err: err}
	}
	in.trim()
	if !in.identified() {
		return Request{}, &ItemError{Index: index, Err: ErrMissingIdentifier}
	}
	body := map[string]any{}
	setString(body, "email", in.Email)
	setString(body, "linkedin_url", in.LinkedInURL)
	setString(body, "id", in.ID)
	setString(body, "first_name", in.FirstName)
	setString(body, "last_name", in.LastName)
	setString(body, "domain", in.Domain)
	return Request{Method: http.MethodPost, Path: "/people/match", Body: body}, nil
}

type personBulkParams struct {
	Details string `param:"peopleDetailsJson"`
}

func buildPersonBulkEnrich(p Params, _ int) (Request, error) {
	var in personBulkParams
	if err := decodeParams(personBulkEnrichFields, p, &in); err != nil {
		return Request{}, err
	}
	details, err := ParseBulkPeople(in.Details)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/people/bulk_match",
		Body:   map[string]any{"details": details},
	}, nil
}

type personSearchParams struct {
	Titles                string   `param:"personTitles"`
	Keywords              string   `param:"qKeywords"`
	Locations             string   `param:"personLocations"`
	Seniorities           []string `param:"personSeniorities" validate:"dive,oneof=c_suite director entry founder head intern manager owner partner senior vp"`
	OrganizationLocations string   `param:"organizationLocations"`
	OrganizationDomains   string   `param:"organizationDomains"`
	EmailStatus           []string `param:"contactEmailStatus" validate:"dive,oneof='likely to engage' unavailable unverified verified"`
	OrganizationIDs       string   `param:"organizationIds"`
	EmployeeRanges        string   `param:"organizationNumEmployeesRanges"`
	RevenueMin            float64  `param:"revenueRangeMin"`
	RevenueMax            float64  `param:"revenueRangeMax"`
	Page                  int      `param:"page" validate:"gte=1"`
	PerPage               int      `param:"perPage" validate:"gte=1,lte=100"`
}

func buildPersonSearch(p Params, index int) (Request, error) {
	var in personSearchParams
	if err := decodeParams(personSearchFields, p, &in); err != nil {
		return Request{}, &ItemError{Index: index, Err: err}
	}
	body := map[string]any{
		"page":     in.Page,
		"per_page": in.PerPage,
	}
	setList(body, "person_titles", in.Titles)
	setString(body, "q_keywords", in.Keywords)
	setList(body, "person_locations", in.Locations)
	setStrings(body, "person_seniorities", in.Seniorities)
	setList(body, "organization_locations", in.OrganizationLocations)
	setList(body, "q_organization_domains_list", in.OrganizationDomains)
	setStrings(body, "contact_email_status", in.EmailStatus)
	setList(body, "organization_ids", in.OrganizationIDs)
	setList(body, "organization_num_employees_ranges", in.EmployeeRanges)
	setRange(body, "revenue_range", in.RevenueMin, in.RevenueMax)
	return Request{Method: http.MethodPost, Path: "/mixed_people/api_search", Body: body}, nil
}

var personHandlers = []*Handler{
	{
		Resource:    ResourcePerson,
		Operation:   OperationEnrich,
		Description: "Retrieve detailed information about a person using an email, LinkedIn URL, ID or name plus company domain",
		Method:      http.MethodPost,
		Path:        "/people/match",
		Fields:      personEnrichFields,
		build:       buildPersonEnrich,
		emit:        emitObject("person"),
	},
	{
		Resource:    ResourcePerson,
		Operation:   OperationBulkEnrich,
		Description: "Retrieve detailed information about up to 10 people at once",
		Method:      http.MethodPost,
		Path:        "/people/bulk_match",
		Fields:      personBulkEnrichFields,
		Batch:       true,
		build:       buildPersonBulkEnrich,
		emit:        emitList("people"),
	},
	{
		Resource:    ResourcePerson,
		Operation:   OperationSearch,
		Description: "Search Apollo's people database by title, location, seniority and employer",
		Method:      http.MethodPost,
		Path:        "/mixed_people/api_search",
		Fields:      personSearchFields,
		build:       buildPersonSearch,
		emit:        emitList("people"),
	},
}
