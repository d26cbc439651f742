package apollo

import (
	"net/http"
	"strings"
)

type contactParams struct {
	FirstName        string `param:"firstName"`
	LastName         string `param:"lastName"`
	Email            string `param:"email"`
	OrganizationName string `param:"organizationName"`
	OrganizationID   string `param:"organizationId"`
	WebsiteURL       string `param:"websiteUrl"`
	Title            string `param:"title"`
	LabelNames       string `param:"labelNames"`
}

// body maps the non-empty contact attributes to their Apollo names.
func (in contactParams) body() map[string]any {
	body := map[string]any{}
	setString(body, "first_name", in.FirstName)
	setString(body, "last_name", in.LastName)
	setString(body, "email", in.Email)
	setString(body, "organization_name", in.OrganizationName)
	setString(body, "organization_id", in.OrganizationID)
	setString(body, "website_url", in.WebsiteURL)
	setString(body, "title", in.Title)
	setList(body, "label_names", in.LabelNames)
	return body
}

type contactCreateParams struct {
	Attrs     contactParams `param:",squash"`
	RunDedupe bool          `param:"runDedupe"`
}

func buildContactCreate(p Params, index int) (Request, error) {
	var in contactCreateParams
	if err := decodeParams(contactCreateFields, p, &in); err != nil {
		return Request{}, &ItemError{Index: index, Err: err}
	}
	body := in.Attrs.body()
	_, hasFirst := body["first_name"]
	_, hasLast := body["last_name"]
	_, hasEmail := body["email"]
	if !hasFirst && !hasLast && !hasEmail {
		return Request{}, itemErrorf(index, "At least one of First Name, Last Name, or Email is required")
	}
	body["run_dedupe"] = in.RunDedupe
	return Request{Method: http.MethodPost, Path: "/contacts", Body: body}, nil
}

type contactUpdateParams struct {
	ContactID string        `param:"contactId"`
	Attrs     contactParams `param:",squash"`
}

func buildContactUpdate(p Params, index int) (Request, error) {
	var in contactUpdateParams
	if err := decodeParams(contactUpdateFields, p, &in); err != nil {
		return Request{}, &ItemError{Index: index, Err: err}
	}
	id := strings.TrimSpace(in.ContactID)
	if id == "" {
		return Request{}, itemErrorf(index, "Contact ID is required")
	}
	seg, ok := pathSegment(id)
	if !ok {
		return Request{}, itemErrorf(index, "Invalid Contact ID %q", id)
	}
	return Request{Method: http.MethodPatch, Path: "/contacts/" + seg, Body: in.Attrs.body()}, nil
}

type contactSearchParams struct {
	Keywords        string `param:"qKeywords"`
	ContactStageIDs string `param:"contactStageIds"`
	LabelIDs        string `param:"labelIds"`
	SortByField     string `param:"sortByField"`
	SortAscending   bool   `param:"sortAscending"`
	Page            int    `param:"page" validate:"gte=1"`
	PerPage         int    `param:"perPage" validate:"gte=1,lte=100"`
}

func buildContactSearch(p Params, _ int) (Request, error) {
	var in contactSearchParams
	if err := decodeParams(contactSearchFields, p, &in); err != nil {
		return Request{}, err
	}
	body := map[string]any{
		"page":           in.Page,
		"per_page":       in.PerPage,
		"sort_ascending": in.SortAscending,
	}
	setString(body, "q_keywords", in.Keywords)
	setList(body, "contact_stage_ids", in.ContactStageIDs)
	setList(body, "label_ids", in.LabelIDs)
	setString(body, "sort_by_field", in.SortByField)
	return Request{Method: http.MethodPost, Path: "/contacts/search", Body: body}, nil
}

var contactHandlers = []*Handler{
	{
		Resource:    ResourceContact,
		Operation:   OperationCreate,
		Description: "Create a contact in your Apollo account",
		Method:      http.MethodPost,
		Path:        "/contacts",
		Fields:      contactCreateFields,
		build:       buildContactCreate,
		emit:        emitObject("contact"),
	},
	{
		Resource:    ResourceContact,
		Operation:   OperationUpdate,
		Description: "Update the attributes of an existing contact",
		Method:      http.MethodPatch,
		Path:        "/contacts/{contactId}",
		Fields:      contactUpdateFields,
		build:       buildContactUpdate,
		emit:        emitObject("contact"),
	},
	{
		Resource:    ResourceContact,
		Operation:   OperationSearch,
		Description: "Search the contacts saved in your Apollo account",
		Method:      http.MethodPost,
		Path:        "/contacts/search",
		Fields:      contactSearchFields,
		Batch:       true,
		build:       buildContactSearch,
		emit:        emitList("contacts"),
	},
}
