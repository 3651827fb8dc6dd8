package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
)

func TestToJSON(t *testing.T) {
	res := &xlinvoice.Result{
		BookName: "book.xlsx",
		Batch:    *sampleBatch(),
		Summary:  models.Summary{TotalSheets: 1, Clients: 1, Invoices: 1, LineItems: 1},
	}

	out, err := ToJSON(res, false)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "book.xlsx", doc["book_name"])
	assert.Len(t, doc["invoices"], 1)

	pretty, err := ToJSON(res, true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  \"summary\": {")
}

func TestToJSON_EmptyListsAreArrays(t *testing.T) {
	out, err := ToJSON(&xlinvoice.Result{}, false)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"clients":[]`)
	assert.Contains(t, string(out), `"invoices":[]`)
}

func TestToJSON_DatesAreISO(t *testing.T) {
	res := &xlinvoice.Result{Batch: *sampleBatch()}

	out, err := ToJSON(res, false)
	require.NoError(t, err)

	var doc struct {
		Invoices []map[string]any `json:"invoices"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	require.Len(t, doc.Invoices, 1)
	assert.Equal(t, "2024-01-31", doc.Invoices[0]["issue_date"])
	assert.Equal(t, "2024-02-29", doc.Invoices[0]["due_date"])
	assert.Equal(t, "INV-'7'", doc.Invoices[0]["invoice_number"])
}

func TestToJSON_MissingDueDateIsNull(t *testing.T) {
	batch := sampleBatch()
	batch.Invoices[0].DueDate = nil

	out, err := ToJSON(&xlinvoice.Result{Batch: *batch}, false)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"due_date":null`)
}
