package apollo

import (
	"net/http"
	"strings"
)

type organizationEnrichParams struct {
	Domain string `param:"organizationDomain"`
	ID     string `param:"organizationId"`
}

func buildOrganizationEnrich(p Params, index int) (Request, error) {
	var in organizationEnrichParams
	if err := decodeParams(organizationEnrichFields, p, &in); err != nil {
		return Request{}, &ItemError{Index: index, Err: err}
	}
	domain := strings.TrimSpace(in.Domain)
	if domain == "" {
		return Request{}, itemErrorf(index, "Organization domain is required")
	}
	query := map[string]any{"domain": domain}
	setString(query, "id", in.ID)
	return Request{Method: http.MethodGet, Path: "/organizations/enrich", Query: query}, nil
}

type organizationBulkParams struct {
	Domains string `param:"organizationDomainsJson"`
}

func buildOrganizationBulkEnrich(p Params, _ int) (Request, error) {
	var in organizationBulkParams
	if err := decodeParams(organizationBulkEnrichFields, p, &in); err != nil {
		return Request{}, err
	}
	domains, err := ParseBulkDomains(in.Domains)
	if err != nil {
		return Request{}, err
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/organizations/bulk_enrich",
		Body:   map[string]any{"domains": domains},
	}, nil
}

type organizationSearchParams struct {
	Name             string  `param:"qOrganizationName"`
	KeywordTags      string  `param:"qOrganizationKeywordTags"`
	Locations        string  `param:"organizationLocations"`
	NotLocations     string  `param:"organizationNotLocations"`
	IDs              string  `param:"organizationIds"`
	EmployeeRanges   string  `param:"organizationNumEmployeesRanges"`
	RevenueMin       float64 `param:"revenueRangeMin"`
	RevenueMax       float64 `param:"revenueRangeMax"`
	LatestFundingMin float64 `param:"latestFundingAmountRangeMin"`
	LatestFundingMax float64 `param:"latestFundingAmountRangeMax"`
	TotalFundingMin  float64 `param:"totalFundingRangeMin"`
	TotalFundingMax  float64 `param:"totalFundingRangeMax"`
	FundingDateMin   string  `param:"latestFundingDateRangeMin"`
	FundingDateMax   string  `param:"latestFundingDateRangeMax"`
	JobTitles        string  `param:"qOrganizationJobTitles"`
	JobLocations     string  `param:"organizationJobLocations"`
	NumJobsMin       int     `param:"organizationNumJobsRangeMin" validate:"gte=0"`
	NumJobsMax       int     `param:"organizationNumJobsRangeMax" validate:"gte=0"`
	JobPostedAtMin   string  `param:"organizationJobPostedAtRangeMin"`
	JobPostedAtMax   string  `param:"organizationJobPostedAtRangeMax"`
	Page             int     `param:"page" validate:"gte=1"`
	PerPage          int     `param:"perPage" validate:"gte=1,lte=100"`
}

func buildOrganizationSearch(p Params, index int) (Request, error) {
	var in organizationSearchParams
	if err := decodeParams(organizationSearchFields, p, &in); err != nil {
		return Request{}, &ItemError{Index: index, Err: err}
	}
	body := map[string]any{
		"page":     in.Page,
		"per_page": in.PerPage,
	}
	setString(body, "q_organization_name", in.Name)
	setList(body, "q_organization_keyword_tags", in.KeywordTags)
	setList(body, "organization_locations", in.Locations)
	setList(body, "organization_not_locations", in.NotLocations)
	setList(body, "organization_ids", in.IDs)
	setList(body, "organization_num_employees_ranges", in.EmployeeRanges)
	setRange(body, "revenue_range", in.RevenueMin, in.RevenueMax)
	setRange(body, "latest_funding_amount_range", in.LatestFundingMin, in.LatestFundingMax)
	setRange(body, "total_funding_range", in.TotalFundingMin, in.TotalFundingMax)
	setRange(body, "latest_funding_date_range", strings.TrimSpace(in.FundingDateMin), strings.TrimSpace(in.FundingDateMax))
	setList(body, "q_organization_job_titles", in.JobTitles)
	setList(body, "organization_job_locations", in.JobLocations)
	setRange(body, "organization_num_jobs_range", in.NumJobsMin, in.NumJobsMax)
	setRange(body, "organization_job_posted_at_range", strings.TrimSpace(in.JobPostedAtMin), strings.TrimSpace(in.JobPostedAtMax))
	return Request{Method: http.MethodPost, Path: "/mixed_companies/search", Body: body}, nil
}

var organizationHandlers = []*Handler{
	{
		Resource:    ResourceOrganization,
		Operation:   OperationEnrich,
		Description: "Retrieve detailed information about a company using its domain",
		Method:      http.MethodGet,
		Path:        "/organizations/enrich",
		Fields:      organizationEnrichFields,
		build:       buildOrganizationEnrich,
		emit:        emitObject("organization"),
	},
	{
		Resource:    ResourceOrganization,
		Operation:   OperationBulkEnrich,
		Description: "Retrieve detailed information about up to 10 companies at once",
		Method:      http.MethodPost,
		Path:        "/organizations/bulk_enrich",
		Fields:      organizationBulkEnrichFields,
		Batch:       true,
		build:       buildOrganizationBulkEnrich,
		emit:        emitList("organizations"),
	},
	{
		Resource:    ResourceOrganization,
		Operation:   OperationSearch,
		Description: "Search Apollo's company database by name, location, size, revenue, funding and hiring",
		Method:      http.MethodPost,
		Path:        "/mixed_companies/search",
		Fields:      organizationSearchFields,
		build:       buildOrganizationSearch,
		emit:        emitList("organizations"),
	},
}
