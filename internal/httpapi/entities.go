package httpapi

import (
	"net/http"

	"github.com/EvgeniyBoldov/calendar/internal/types"
	"github.com/gorilla/mux"
)

func (s *Server) registerEntityRoutes(api *mux.Router) {
	api.HandleFunc("/regions", s.handleListRegions).Methods(http.MethodGet)
	api.HandleFunc("/regions", s.handleCreateRegion).Methods(http.MethodPost)
	api.HandleFunc("/regions/{id}", s.handleUpdateRegion).Methods(http.MethodPatch)
	api.HandleFunc("/regions/{id}", s.handleDeleteRegion).Methods(http.MethodDelete)

	api.HandleFunc("/data-centers", s.handleListDataCenters).Methods(http.MethodGet)
	api.HandleFunc("/data-centers", s.handleCreateDataCenter).Methods(http.MethodPost)
	api.HandleFunc("/data-centers/{id}", s.handleUpdateDataCenter).Methods(http.MethodPatch)
	api.HandleFunc("/data-centers/{id}", s.handleDeleteDataCenter).Methods(http.MethodDelete)

	api.HandleFunc("/distances", s.handleListDistances).Methods(http.MethodGet)
	api.HandleFunc("/distances", s.handleCreateDistance).Methods(http.MethodPost)
	api.HandleFunc("/distances/{id}", s.handleDeleteDistance).Methods(http.MethodDelete)

	api.HandleFunc("/engineers", s.handleListEngineers).Methods(http.MethodGet)
	api.HandleFunc("/engineers", s.handleCreateEngineer).Methods(http.MethodPost)
	api.HandleFunc("/engineers/{id}", s.handleUpdateEngineer).Methods(http.MethodPatch)
	api.HandleFunc("/engineers/{id}", s.handleDeleteEngineer).Methods(http.MethodDelete)
	api.HandleFunc("/engineers/{id}/slots", s.handleListSlots).Methods(http.MethodGet)
	api.HandleFunc("/engineers/{id}/slots", s.handleCreateSlot).Methods(http.MethodPost)
	api.HandleFunc("/slots/{id}", s.handleDeleteSlot).Methods(http.MethodDelete)

	api.HandleFunc("/chunks/{id}/tasks", s.handleListTasks).Methods(http.MethodGet)
	api.HandleFunc("/chunks/{id}/tasks", s.handleCreateTask).Methods(http.MethodPost)
	api.HandleFunc("/chunks/{id}/links", s.handleCreateLink).Methods(http.MethodPost)
}

// --- Regions ---

func (s *Server) handleListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := s.mgr.ListRegions()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, regions)
}

func (s *Server) handleCreateRegion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	region, err := s.mgr.CreateRegion(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, region)
}

func (s *Server) handleUpdateRegion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	region, err := s.mgr.UpdateRegion(mux.Vars(r)["id"], req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, region)
}

func (s *Server) handleDeleteRegion(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.DeleteRegion(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- DataCenters ---

func (s *Server) handleListDataCenters(w http.ResponseWriter, r *http.Request) {
	dcs, err := s.mgr.ListDataCenters()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dcs)
}

func (s *Server) handleCreateDataCenter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RegionID string `json:"region_id"`
		Name     string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	dc, err := s.mgr.CreateDataCenter(req.RegionID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dc)
}

func (s *Server) handleUpdateDataCenter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	dc, err := s.mgr.UpdateDataCenter(mux.Vars(r)["id"], req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dc)
}

func (s *Server) handleDeleteDataCenter(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.DeleteDataCenter(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- DistanceEntries ---

func (s *Server) handleListDistances(w http.ResponseWriter, r *http.Request) {
	entries, err := s.mgr.ListDistanceEntries()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateDistance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromDCID string `json:"from_dc_id"`
		ToDCID   string `json:"to_dc_id"`
		Minutes  int    `json:"minutes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	entry, err := s.mgr.CreateDistanceEntry(req.FromDCID, req.ToDCID, req.Minutes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleDeleteDistance(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.DeleteDistanceEntry(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Engineers ---

func (s *Server) handleListEngineers(w http.ResponseWriter, r *http.Request) {
	if regionID := r.URL.Query().Get("region_id"); regionID != "" {
		engineers, err := s.mgr.ListEngineersByRegion(regionID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, engineers)
		return
	}
	engineers, err := s.mgr.ListEngineers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engineers)
}

func (s *Server) handleCreateEngineer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RegionID string `json:"region_id"`
		UserID   string `json:"user_id"`
		Name     string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	engineer, err := s.mgr.CreateEngineer(req.RegionID, req.UserID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, engineer)
}

func (s *Server) handleUpdateEngineer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	engineer, err := s.mgr.UpdateEngineer(mux.Vars(r)["id"], req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, engineer)
}

func (s *Server) handleDeleteEngineer(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.DeleteEngineer(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- TimeSlots ---

func (s *Server) handleListSlots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	slots, err := s.mgr.ListTimeSlots(mux.Vars(r)["id"], q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

func (s *Server) handleCreateSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      string `json:"date"`
		StartHour int    `json:"start_hour"`
		EndHour   int    `json:"end_hour"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	slot, err := s.mgr.CreateTimeSlot(mux.Vars(r)["id"], req.Date, req.StartHour, req.EndHour)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

func (s *Server) handleDeleteSlot(w http.ResponseWriter, r *http.Request) {
	if err := s.mgr.DeleteTimeSlot(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- WorkTasks / ChunkLinks ---

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.mgr.ListWorkTasksByChunk(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string `json:"name"`
		EstimatedHours int    `json:"estimated_hours"`
		Quantity       int    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	task, err := s.mgr.CreateWorkTask(mux.Vars(r)["id"], req.Name, req.EstimatedHours, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LinkedChunkID string         `json:"linked_chunk_id"`
		Type          types.LinkType `json:"type"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	link, err := s.mgr.CreateChunkLink(mux.Vars(r)["id"], req.LinkedChunkID, req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}
