package chi

import (
	dombatch "github.com/fuelgrid-cloud/pumproom/internal/domain/batch"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/search/record"
	listinguc "github.com/fuelgrid-cloud/pumproom/internal/usecase/listing"
)

// Error codes returned to clients.
const (
	codeBadRequest        = "bad_request"
	codeValidationFailed  = "validation_failed"
	codeNotFound          = "not_found"
	codeInvalidTransition = "invalid_transition"
	codeBatchTooLarge     = "batch_too_large"
	codeUnauthorized      = "unauthorized"
	codeInternalError     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchHit struct {
	ID          string         `json:"id"`
	SourceType  string         `json:"sourceType"`
	DisplayName string         `json:"displayName"`
	Description string         `json:"description"`
	Record      map[string]any `json:"record"`
}

type searchResponse struct {
	Query   string      `json:"query"`
	Total   int         `json:"total"`
	Results []searchHit `json:"results"`
}

func searchHitsFromRecords(records []record.Record) []searchHit {
	hits := make([]searchHit, len(records))
	for i := range records {
		r := &records[i]
		hits[i] = searchHit{
			ID:          r.ID(),
			SourceType:  r.Source().String(),
			DisplayName: r.DisplayName(),
			Description: r.Description(),
			Record:      r.Raw(),
		}
	}
	return hits
}

type listItem struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
	Record map[string]any `json:"record"`
}

type listResponse struct {
	Items    []listItem `json:"items"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

func listResponseFromPage(page listinguc.Page) listResponse {
	items := make([]listItem, len(page.Items))
	for i, item := range page.Items {
		items[i] = listItem{ID: item.ID, Fields: item.Fields, Record: item.Raw}
	}
	return listResponse{
		Items:    items,
		Total:    page.Total,
		Page:     page.PageIndex,
		PageSize: page.PageSize,
	}
}

type createResponse struct {
	ID string `json:"id"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type approveResponse struct {
	PumpID string `json:"pumpId"`
}

type importRequest struct {
	Rows []map[string]any `json:"rows"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

type batchItemResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type batchResponse struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []batchItemResult `json:"results"`
}

func batchResponseFrom(results []dombatch.Result, summary dombatch.Summary) batchResponse {
	items := make([]batchItemResult, len(results))
	for i, r := range results {
		item := batchItemResult{ID: r.ID(), Status: string(r.Status())}
		if r.Err() != nil {
			item.Error = r.Err().Error()
		}
		items[i] = item
	}
	return batchResponse{Succeeded: summary.Succeeded, Failed: summary.Failed, Results: items}
}
