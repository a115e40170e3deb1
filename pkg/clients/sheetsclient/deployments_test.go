package sheetsclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func testSheet() *DeploymentSheet {
	return &DeploymentSheet{
		Date:               "01/03/2025",
		Forecast:           "£5,000",
		DayShiftForecast:   "£3,000",
		NightShiftForecast: "£2,000",
		Weather:            "light rain, 9°C",
		Rows: []DeploymentRow{
			{Staff: "Alice", Start: "10:00", End: "16:30", Hours: 6.5, Break: 30, Position: "Till", Area: "Front"},
			{Staff: "Bob", Start: "17:00", End: "21:00", Hours: 4, Break: 0, Cleaning: "Kitchen"},
		},
	}
}

func TestDeploymentSheet_Values(t *testing.T) {
	sheet := testSheet()

	assert.Equal(t, "Deployments 01-03-2025", sheet.Title())

	values := sheet.Values()
	require.Len(t, values, 8)
	assert.Equal(t, []interface{}{"Date", "01/03/2025"}, values[0])
	assert.Equal(t, "£2,000", values[1][5])
	assert.Empty(t, values[4])
	assert.Equal(t, "Staff", values[5][0])
	assert.Equal(t, []interface{}{"Alice", "10:00", "16:30", "6.50", "30", "Till", "", "Front", ""}, values[6])
	assert.Equal(t, "Kitchen", values[7][8])
}

// fakeSheets is a minimal Sheets API backend that records the calls made
type fakeSheets struct {
	mu     sync.Mutex
	tabs   []string
	calls  []string
	values [][]interface{}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet:
		f.calls = append(f.calls, "get")
		var resp sheets.Spreadsheet
		for _, title := range f.tabs {
			resp.Sheets = append(resp.Sheets, &sheets.Sheet{Properties: &sheets.SheetProperties{Title: title}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	case strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "create")
		var req sheets.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		title := req.Requests[0].AddSheet.Properties.Title
		f.tabs = append(f.tabs, title)
		_ = json.NewEncoder(w).Encode(sheets.BatchUpdateSpreadsheetResponse{
			Replies: []*sheets.Response{{AddSheet: &sheets.AddSheetResponse{
				Properties: &sheets.SheetProperties{SheetId: 7, Title: title},
			}}},
		})
	case strings.HasSuffix(path, ":clear"):
		f.calls = append(f.calls, "clear")
		_, _ = io.WriteString(w, "{}")
	case r.Method == http.MethodPut:
		f.calls = append(f.calls, "update")
		var vr sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.values = vr.Values
		_, _ = io.WriteString(w, "{}")
	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, backend http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	service, err := sheets.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return NewClientWithService(service, zap.NewNop())
}

func TestPublishDeploymentSheet_CreatesMissingTab(t *testing.T) {
	backend := &fakeSheets{}
	client := newTestClient(t, backend)

	err := client.PublishDeploymentSheet(context.Background(), "sheet-id", testSheet())
	require.NoError(t, err)

	assert.Equal(t, []string{"get", "create", "update"}, backend.calls)
	assert.Equal(t, []string{"Deployments 01-03-2025"}, backend.tabs)
	require.Len(t, backend.values, 8)
	assert.Equal(t, "Alice", backend.values[6][0])
}

func TestPublishDeploymentSheet_OverwritesExistingTab(t *testing.T) {
	backend := &fakeSheets{tabs: []string{"Deployments 01-03-2025"}}
	client := newTestClient(t, backend)

	err := client.PublishDeploymentSheet(context.Background(), "sheet-id", testSheet())
	require.NoError(t, err)

	assert.Equal(t, []string{"get", "clear", "update"}, backend.calls)
}

func TestPublishDeploymentSheet_APIError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"code": 403, "message": "forbidden"}}`, http.StatusForbidden)
	}))

	err := client.PublishDeploymentSheet(context.Background(), "sheet-id", testSheet())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get spreadsheet metadata")
}
