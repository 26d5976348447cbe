package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDataCenterAndEngineerAndSlotLifecycleThroughAPI(t *testing.T) {
	router := newTestServer(t).Router()

	regionRec := doJSON(t, router, http.MethodPost, "/api/regions", `{"name":"EMEA"}`)
	require.Equal(t, http.StatusCreated, regionRec.Code)
	var region map[string]any
	decodeBody(t, regionRec, &region)
	regionID := region["id"].(string)

	dcRec := doJSON(t, router, http.MethodPost, "/api/data-centers", `{"region_id":"`+regionID+`","name":"DC1"}`)
	require.Equal(t, http.StatusCreated, dcRec.Code)
	var dc map[string]any
	decodeBody(t, dcRec, &dc)
	dcID := dc["id"].(string)

	listDCRec := doJSON(t, router, http.MethodGet, "/api/data-centers", "")
	assert.Equal(t, http.StatusOK, listDCRec.Code)

	engRec := doJSON(t, router, http.MethodPost, "/api/engineers", `{"region_id":"`+regionID+`","name":"Alice"}`)
	require.Equal(t, http.StatusCreated, engRec.Code)
	var eng map[string]any
	decodeBody(t, engRec, &eng)
	engID := eng["id"].(string)

	slotRec := doJSON(t, router, http.MethodPost, "/api/engineers/"+engID+"/slots", `{"date":"2026-09-01","start_hour":9,"end_hour":17}`)
	require.Equal(t, http.StatusCreated, slotRec.Code)
	var slot map[string]any
	decodeBody(t, slotRec, &slot)
	slotID := slot["id"].(string)

	listSlotsRec := doJSON(t, router, http.MethodGet, "/api/engineers/"+engID+"/slots", "")
	assert.Equal(t, http.StatusOK, listSlotsRec.Code)
	var slots []map[string]any
	decodeBody(t, listSlotsRec, &slots)
	assert.Len(t, slots, 1)

	deleteSlotRec := doJSON(t, router, http.MethodDelete, "/api/slots/"+slotID, "")
	assert.Equal(t, http.StatusNoContent, deleteSlotRec.Code)

	deleteEngRec := doJSON(t, router, http.MethodDelete, "/api/engineers/"+engID, "")
	assert.Equal(t, http.StatusNoContent, deleteEngRec.Code)

	deleteDCRec := doJSON(t, router, http.MethodDelete, "/api/data-centers/"+dcID, "")
	assert.Equal(t, http.StatusNoContent, deleteDCRec.Code)
}

func TestDistanceEntryLifecycleThroughAPI(t *testing.T) {
	router := newTestServer(t).Router()

	createRec := doJSON(t, router, http.MethodPost, "/api/distances", `{"from_dc_id":"dc1","to_dc_id":"dc2","minutes":90}`)
	require.Equal(t, http.StatusCreated, createRec.Code)
	var entry map[string]any
	decodeBody(t, createRec, &entry)
	entryID := entry["id"].(string)

	listRec := doJSON(t, router, http.MethodGet, "/api/distances", "")
	assert.Equal(t, http.StatusOK, listRec.Code)
	var entries []map[string]any
	decodeBody(t, listRec, &entries)
	assert.Len(t, entries, 1)

	deleteRec := doJSON(t, router, http.MethodDelete, "/api/distances/"+entryID, "")
	assert.Equal(t, http.StatusNoContent, deleteRec.Code)
}

func TestWorkTaskAndChunkLinkThroughAPI(t *testing.T) {
	router := newTestServer(t).Router()

	workRec := doJSON(t, router, http.MethodPost, "/api/works", `{"type":"general","title":"Rack install"}`)
	require.Equal(t, http.StatusCreated, workRec.Code)
	var work map[string]any
	decodeBody(t, workRec, &work)
	workID := work["id"].(string)

	chunk1Rec := doJSON(t, router, http.MethodPost, "/api/works/"+workID+"/chunks", `{"order":0}`)
	require.Equal(t, http.StatusCreated, chunk1Rec.Code)
	var chunk1 map[string]any
	decodeBody(t, chunk1Rec, &chunk1)
	chunk1ID := chunk1["id"].(string)

	chunk2Rec := doJSON(t, router, http.MethodPost, "/api/works/"+workID+"/chunks", `{"order":1}`)
	require.Equal(t, http.StatusCreated, chunk2Rec.Code)
	var chunk2 map[string]any
	decodeBody(t, chunk2Rec, &chunk2)
	chunk2ID := chunk2["id"].(string)

	taskRec := doJSON(t, router, http.MethodPost, "/api/chunks/"+chunk1ID+"/tasks", `{"name":"cabling","estimated_hours":2,"quantity":1}`)
	require.Equal(t, http.StatusCreated, taskRec.Code)

	listTasksRec := doJSON(t, router, http.MethodGet, "/api/chunks/"+chunk1ID+"/tasks", "")
	assert.Equal(t, http.StatusOK, listTasksRec.Code)
	var tasks []map[string]any
	decodeBody(t, listTasksRec, &tasks)
	assert.Len(t, tasks, 1)

	linkRec := doJSON(t, router, http.MethodPost, "/api/chunks/"+chunk1ID+"/links", `{"linked_chunk_id":"`+chunk2ID+`","type":"dependency"}`)
	assert.Equal(t, http.StatusCreated, linkRec.Code)
}

func TestUpdateRegionThroughAPI(t *testing.T) {
	router := newTestServer(t).Router()

	createRec := doJSON(t, router, http.MethodPost, "/api/regions", `{"name":"EMEA"}`)
	require.Equal(t, http.StatusCreated, createRec.Code)
	var region map[string]any
	decodeBody(t, createRec, &region)
	regionID := region["id"].(string)

	updateRec := doJSON(t, router, http.MethodPatch, "/api/regions/"+regionID, `{"name":"EMEA-2"}`)
	require.Equal(t, http.StatusOK, updateRec.Code)
	var updated map[string]any
	decodeBody(t, updateRec, &updated)
	assert.Equal(t, "EMEA-2", updated["name"])
}
