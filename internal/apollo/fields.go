package apollo

import "apollonode/internal/types"

// Seniorities accepted by person search.
var Seniorities = []string{
	"c_suite", "director", "entry", "founder", "head", "intern",
	"manager", "owner", "partner", "senior", "vp",
}

// EmailStatuses accepted by person search.
var EmailStatuses = []string{"likely to engage", "unavailable", "unverified", "verified"}

func strField(name, display, desc string) types.FieldDef {
	return types.FieldDef{Name: name, DisplayName: display, Type: types.FieldString, Description: desc, Default: ""}
}

// listField is a text field holding a semicolon-separated list.
func listField(name, display, desc string) types.FieldDef {
	f := strField(name, display, desc)
	f.Delimiter = ";"
	return f
}

func requiredStr(name, display, desc string) types.FieldDef {
	f := strField(name, display, desc)
	f.Required = true
	return f
}

func numField(name, display, desc string, def int) types.FieldDef {
	return types.FieldDef{Name: name, DisplayName: display, Type: types.FieldNumber, Description: desc, Default: def}
}

func dateField(name, display, desc string) types.FieldDef {
	return types.FieldDef{Name: name, DisplayName: display, Type: types.FieldDateTime, Description: desc, Default: ""}
}

func multiField(name, display, desc string, options []string) types.FieldDef {
	return types.FieldDef{Name: name, DisplayName: display, Type: types.FieldMultiOptions, Description: desc, Options: options}
}

func pageFields(perPage int) []types.FieldDef {
	return []types.FieldDef{
		numField("page", "Page", "The specific page of results to retrieve. Useful for pagination.", 1),
		numField("perPage", "Per Page", "The number of records to return per page. Maximum is 100.", perPage),
	}
}

var sequenceSearchFields = append([]types.FieldDef{
	strField("sequenceName", "Sequence Name Contains", "The name (or partial name) of the sequence to search for"),
}, pageFields(25)...)

var contactIDsField = func() types.FieldDef {
	f := requiredStr("contactIds", "Contact IDs", `Contact IDs to add, as a JSON array (["id1","id2"]) or comma-separated`)
	f.Delimiter = ","
	return f
}()

var sequenceAddContactsFields = []types.FieldDef{
	requiredStr("sequenceId", "Sequence ID", "The unique identifier of the Apollo sequence to which contacts will be added"),
	contactIDsField,
}

var personEnrichFields = []types.FieldDef{
	strField("personEmail", "Email", "The email address of the person you want to enrich data for"),
	strField("personLinkedInUrl", "LinkedIn URL", "The public LinkedIn profile URL of the person"),
	strField("personId", "Apollo Person ID", "The unique Apollo ID of the person"),
	strField("personFirstName", "First Name", "The first name of the person"),
	strField("personLastName", "Last Name", "The last name of the person"),
	strField("personDomain", "Company Domain", `The website domain of the company the person works for (e.g., "example.com")`),
}

var personBulkEnrichFields = []types.FieldDef{
	{
		Name:        "peopleDetailsJson",
		DisplayName: "People Details (JSON Array)",
		Type:        types.FieldJSON,
		Description: "A JSON array of 1 to 10 people to match, each with the same identifiers as a single enrichment",
		Required:    true,
		Default:     `[{"email":"name@example.com"}]`,
	},
}

var personSearchFields = append([]types.FieldDef{
	listField("personTitles", "Person Titles", "Job titles to search for, separated by semicolons"),
	strField("qKeywords", "Keywords", "Keywords to filter people by. This searches across various fields."),
	listField("personLocations", "Person Locations", "Locations where people live, separated by semicolons"),
	multiField("personSeniorities", "Seniorities", "Filter people based on their job seniority level", Seniorities),
	listField("organizationLocations", "Organization Locations", "Headquarters locations of the employer, separated by semicolons"),
	listField("organizationDomains", "Organization Domains", "Employer domains, separated by semicolons"),
	multiField("contactEmailStatus", "Email Status", "Filter people by the status of their email address", EmailStatuses),
	listField("organizationIds", "Organization IDs", "Apollo organization IDs, separated by semicolons"),
	listField("organizationNumEmployeesRanges", "Employee Count Ranges", `Employee count ranges such as "1,10", separated by semicolons`),
	numField("revenueRangeMin", "Min Revenue", "The minimum annual revenue of the organization (in USD)", 0),
	numField("revenueRangeMax", "Max Revenue", "The maximum annual revenue of the organization (in USD)", 0),
}, pageFields(10)...)

var organizationEnrichFields = []types.FieldDef{
	requiredStr("organizationDomain", "Website Domain", `The website domain of the organization (e.g., "apollo.io")`),
	strField("organizationId", "Apollo Organization ID", "The unique Apollo ID of the organization"),
}

var organizationBulkEnrichFields = []types.FieldDef{
	{
		Name:        "organizationDomainsJson",
		DisplayName: "Domains (JSON Array)",
		Type:        types.FieldJSON,
		Description: "A JSON array of 1 to 10 organization domains",
		Required:    true,
		Default:     `["example.com"]`,
	},
}

var organizationSearchFields = append([]types.FieldDef{
	strField("qOrganizationName", "Organization Name", "Filter organizations by their name (partial match supported)"),
	listField("qOrganizationKeywordTags", "Keyword Tags", "Industry or keyword tags, separated by semicolons"),
	listField("organizationLocations", "Organization Locations", "Headquarters locations, separated by semicolons"),
	listField("organizationNotLocations", "Excluded Locations", "Headquarters locations to exclude, separated by semicolons"),
	listField("organizationIds", "Organization IDs", "Apollo organization IDs, separated by semicolons"),
	listField("organizationNumEmployeesRanges", "Employee Count Ranges", `Employee count ranges such as "1,10", separated by semicolons`),
	numField("revenueRangeMin", "Min Revenue", "The minimum annual revenue of the organization (in USD)", 0),
	numField("revenueRangeMax", "Max Revenue", "The maximum annual revenue of the organization (in USD)", 0),
	numField("latestFundingAmountRangeMin", "Min Latest Funding", "The minimum amount of the most recent funding round (in USD)", 0),
	numField("latestFundingAmountRangeMax", "Max Latest Funding", "The maximum amount of the most recent funding round (in USD)", 0),
	numField("totalFundingRangeMin", "Min Total Funding", "The minimum total funding amount raised by the organization (in USD)", 0),
	numField("totalFundingRangeMax", "Max Total Funding", "The maximum total funding amount raised by the organization (in USD)", 0),
	dateField("latestFundingDateRangeMin", "Latest Funding Date Min", "The earliest date to consider for the organization's most recent funding round"),
	dateField("latestFundingDateRangeMax", "Latest Funding Date Max", "The latest date to consider for the organization's most recent funding round"),
	listField("qOrganizationJobTitles", "Job Titles", "Job titles in active postings, separated by semicolons"),
	listField("organizationJobLocations", "Job Locations", "Locations of active job postings, separated by semicolons"),
	numField("organizationNumJobsRangeMin", "Min Active Jobs", "The minimum number of active job postings the organization has", 0),
	numField("organizationNumJobsRangeMax", "Max Active Jobs", "The maximum number of active job postings the organization has", 0),
	dateField("organizationJobPostedAtRangeMin", "Job Posted At Min", "The earliest date to consider for when job postings were created"),
	dateField("organizationJobPostedAtRangeMax", "Job Posted At Max", "The latest date to consider for when job postings were created"),
}, pageFields(10)...)

func contactFields() []types.FieldDef {
	return []types.FieldDef{
		strField("firstName", "First Name", "The contact's first name"),
		strField("lastName", "Last Name", "The contact's last name"),
		strField("email", "Email", "The contact's email address"),
		strField("organizationName", "Organization Name", "The name of the contact's employer"),
		strField("organizationId", "Organization ID", "The Apollo ID of the contact's employer"),
		strField("websiteUrl", "Website URL", "The employer's website"),
		strField("title", "Title", "The contact's job title"),
		listField("labelNames", "Label Names", "Labels to apply, separated by semicolons"),
	}
}

var contactCreateFields = append(contactFields(),
	types.FieldDef{
		Name:        "runDedupe",
		DisplayName: "Deduplicate",
		Type:        types.FieldBoolean,
		Description: "Whether Apollo should skip creating a duplicate of an existing contact",
		Default:     false,
	},
)

var contactUpdateFields = append([]types.FieldDef{
	requiredStr("contactId", "Contact ID", "The Apollo ID of the contact to update"),
}, contactFields()...)

var contactSearchFields = append([]types.FieldDef{
	strField("qKeywords", "Keywords", "Keywords matched against name, title, employer and email"),
	listField("contactStageIds", "Contact Stage IDs", "Contact stage IDs, separated by semicolons"),
	listField("labelIds", "Label IDs", "Label IDs, separated by semicolons"),
	strField("sortByField", "Sort By", `Field to sort by, such as "contact_last_activity_date"`),
	{
		Name:        "sortAscending",
		DisplayName: "Sort Ascending",
		Type:        types.FieldBoolean,
		Description: "Sort results in ascending order",
		Default:     false,
	},
}, pageFields(25)...)

// FieldByName returns the declared field called name, if any.
func (h *Handler) FieldByName(name string) (types.FieldDef, bool) {
	for _, f := range h.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return types.FieldDef{}, false
}
