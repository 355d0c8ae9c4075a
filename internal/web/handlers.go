package web

import (
	"errors"
	"net/http"

	"github.com/go-json-experiment/json"
	"github.com/gorilla/mux"

	"nycleads/internal/annotations"
	"nycleads/internal/borough"
	"nycleads/internal/filter"
	"nycleads/internal/pipeline"
	"nycleads/internal/types"
)

// RecordsResponse is the body of GET /api/records.
type RecordsResponse struct {
	Records     []types.Record                    `json:"records"`
	Summary     pipeline.Summary                  `json:"summary"`
	Annotations map[string]annotations.Annotation `json:"annotations,omitempty"`
	Warnings    []string                          `json:"warnings,omitempty"`
}

// BoroughInfo is one entry of GET /api/boroughs.
type BoroughInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type annotationUpdate struct {
	Contacted *bool   `json:"contacted"`
	Note      *string `json:"note"`
}

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v fully before writing the header. Encoding failures are
// logged and answered with a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		s.log.Error("failed to encode response", "status", status, "error", err)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.log.Debug("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}

// specFromQuery reads type, borough and neighborhood (repeatable), address
// and zip.
func specFromQuery(r *http.Request) (filter.Spec, error) {
	q := r.URL.Query()
	spec := filter.Spec{
		BuildingTypes: q["type"],
		Boroughs:      q["borough"],
		Neighborhoods: q["neighborhood"],
		Address:       q.Get("address"),
	}
	zip, err := filter.ParseZIP(q.Get("zip"))
	if err != nil {
		return filter.Spec{}, err
	}
	spec.Zip = zip
	return spec, nil
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	spec, err := specFromQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	res := pipeline.Search(s.records, spec)
	resp := RecordsResponse{
		Records: res.Records,
		Summary: pipeline.Summarize(res.Records),
	}
	for _, warn := range res.Warnings {
		resp.Warnings = append(resp.Warnings, warn.Error())
	}

	if s.notes != nil && len(res.Records) > 0 {
		all, err := s.notes.All()
		if err != nil {
			s.log.Warn("failed to read annotations", "error", err)
		}
		for _, rec := range res.Records {
			if a, ok := all[rec.Key()]; ok {
				if resp.Annotations == nil {
					resp.Annotations = make(map[string]annotations.Annotation)
				}
				resp.Annotations[a.Key] = a
			}
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listBoroughs(w http.ResponseWriter, r *http.Request) {
	var out []BoroughInfo
	for _, code := range borough.Codes() {
		name, _ := borough.NameFor(code)
		out = append(out, BoroughInfo{Code: code, Name: name})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) listNeighborhoods(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.index.Map())
}

func (s *Server) boroughNeighborhoods(w http.ResponseWriter, r *http.Request) {
	b := mux.Vars(r)["borough"]
	ns := s.index.Lookup(b)
	if ns == nil {
		ns = []string{}
	}
	s.writeJSON(w, http.StatusOK, ns)
}

func (s *Server) getAnnotation(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	a, ok, err := s.notes.Get(key)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		rec, known := s.byKey[key]
		if !known {
			s.writeError(w, http.StatusNotFound, errors.New("unknown record key"))
			return
		}
		a = annotations.For(rec)
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) putAnnotation(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var upd annotationUpdate
	if err := json.UnmarshalRead(r.Body, &upd); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	a, ok, err := s.notes.Get(key)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		rec, known := s.byKey[key]
		if !known {
			s.writeError(w, http.StatusNotFound, errors.New("unknown record key"))
			return
		}
		a = annotations.For(rec)
	}
	if upd.Contacted != nil {
		a.Contacted = *upd.Contacted
	}
	if upd.Note != nil {
		a.Note = *upd.Note
	}

	saved, err := s.notes.Set(a)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, saved)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"records": len(s.records),
	})
}
