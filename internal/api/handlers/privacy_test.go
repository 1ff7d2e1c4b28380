package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/internal/domain/models"
	"argus/internal/domain/services"
)

// The fleet privacy report is built from the inventory snapshot, which
// still contains excluded packages. The handler must filter them out.
func TestPrivacyReportSkipsExcludedPackages(t *testing.T) {
	provider := &fixedInventory{apps: []models.InstalledApp{
		{
			PackageName: "com.example.tracker",
			AppName:     "Tracker",
			Permissions: []string{"android.permission.ACCESS_FINE_LOCATION", "android.permission.READ_CONTACTS"},
		},
		{
			PackageName: "com.example.notes",
			AppName:     "Notes",
			Permissions: []string{"android.permission.INTERNET"},
		},
	}}
	exclusions := newMemExclusionStore()
	require.NoError(t, exclusions.Add(context.Background(), &models.ExclusionRecord{
		PackageName: "com.example.tracker",
	}))

	privacy := services.NewPrivacyCalculator(services.NewClassifier())
	handler := NewPrivacyHandler(provider, privacy, exclusions, nil, testLogger())

	rr := httptest.NewRecorder()
	handler.Report(rr, httptest.NewRequest(http.MethodGet, "/api/v1/privacy/report", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var report models.PrivacyReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))

	assert.Equal(t, 1, report.TotalApps)
	require.Len(t, report.Apps, 1)
	assert.Equal(t, "com.example.notes", report.Apps[0].PackageName)
}

func TestPrivacyReportWithoutExclusions(t *testing.T) {
	provider := &fixedInventory{apps: []models.InstalledApp{
		{PackageName: "com.example.a", AppName: "A"},
		{PackageName: "com.example.b", AppName: "B"},
	}}

	privacy := services.NewPrivacyCalculator(services.NewClassifier())
	handler := NewPrivacyHandler(provider, privacy, newMemExclusionStore(), nil, testLogger())

	rr := httptest.NewRecorder()
	handler.Report(rr, httptest.NewRequest(http.MethodGet, "/api/v1/privacy/report", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var report models.PrivacyReport
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &report))
	assert.Equal(t, 2, report.TotalApps)
}
