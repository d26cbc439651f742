package apollo

import (
	"net/http"
	"strings"
)

type sequenceSearchParams struct {
	SequenceName string `param:"sequenceName"`
	Page         int    `param:"page" validate:"gte=1"`
	PerPage      int    `param:"perPage" validate:"gte=1,lte=100"`
}

func buildSequenceSearch(p Params, _ int) (Request, error) {
	var in sequenceSearchParams
	if err := decodeParams(sequenceSearchFields, p, &in); err != nil {
		return Request{}, err
	}
	body := map[string]any{}
	setString(body, "q_campaign_name", in.SequenceName)
	return Request{
		Method: http.MethodPost,
		Path:   "/emailer_campaigns/search",
		Body:   body,
		Query:  map[string]any{"page": in.Page, "per_page": in.PerPage},
	}, nil
}

type addContactsParams struct {
	SequenceID string `param:"sequenceId"`
	ContactIDs string `param:"contactIds"`
}

func buildAddContacts(p Params, index int) (Request, error) {
	var in addContactsParams
	if err := decodeParams(sequenceAddContactsFields, p, &in); err != nil {
		return Request{}, &ItemError{Index: index, Err: err}
	}
	seq := strings.TrimSpace(in.SequenceID)
	if seq == "" {
		return Request{}, itemErrorf(index, "Sequence ID is required")
	}
	seg, ok := pathSegment(seq)
	if !ok {
		return Request{}, itemErrorf(index, "Invalid Sequence ID %q", seq)
	}
	ids := ParseContactIDs(in.ContactIDs)
	if len(ids.IDs) == 0 {
		return Request{}, &ItemError{Index: index, Err: ErrNoContactIDs}
	}
	return Request{
		Method: http.MethodPost,
		Path:   "/emailer_campaigns/" + seg + "/add_contact_ids",
		Body:   map[string]any{"contact_ids": ids.IDs},
	}, nil
}

var sequenceHandlers = []*Handler{
	{
		Resource:    ResourceSequence,
		Operation:   OperationSearch,
		Description: "Find an existing sequence by name",
		Method:      http.MethodPost,
		Path:        "/emailer_campaigns/search",
		Fields:      sequenceSearchFields,
		Batch:       true,
		build:       buildSequenceSearch,
		emit:        emitList("emailer_campaigns"),
	},
	{
		Resource:    ResourceSequence,
		Operation:   OperationAddContacts,
		Description: "Add one or more contacts to a sequence",
		Method:      http.MethodPost,
		Path:        "/emailer_campaigns/{sequenceId}/add_contact_ids",
		Fields:      sequenceAddContactsFields,
		build:       buildAddContacts,
		emit:        emitRaw,
	},
}
