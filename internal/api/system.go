package api

import (
	"net/http"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/mqtt"
)

// handleHealth reports store readiness, schema state and the optional
// services. 503 until the store is initialised or when it stops answering.
// A pending migration or an unavailable optional service leaves the
// status "degraded" with a 200, since reads and writes still work.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"version": s.version,
		"store":   "ready",
	}

	if !s.store.Ready() {
		resp["status"] = "degraded"
		resp["store"] = "not_initialised"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if err := s.store.HealthCheck(r.Context()); err != nil {
		s.logger.Warn("store health check failed", "error", err)
		resp["status"] = "degraded"
		resp["store"] = "error"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	if schema, err := s.store.SchemaStatus(r.Context()); err != nil {
		s.logger.Warn("reading schema status failed", "error", err)
		resp["schema"] = "error"
		resp["status"] = "degraded"
	} else {
		resp["schema"] = schema
		if schema.Pending > 0 {
			resp["status"] = "degraded"
		}
	}

	if len(s.services) > 0 {
		services := make(map[string]string, len(s.services))
		for name, svc := range s.services {
			if err := svc.HealthCheck(r.Context()); err != nil {
				s.logger.Warn("service health check failed", "service", name, "error", err)
				services[name] = "unavailable"
				resp["status"] = "degraded"
				continue
			}
			services[name] = "ok"
		}
		resp["services"] = services
	}

	if n, err := s.store.CountUsers(r.Context()); err == nil {
		resp["users"] = n
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleExportUsers writes the export file and, when a mirror is configured,
// uploads it. A failed upload is reported alongside the local path.
func (s *Server) handleExportUsers(w http.ResponseWriter, r *http.Request) {
	path, err := s.store.ExportUsers(r.Context())
	if err != nil {
		s.writeStoreError(w, r, "export users", err)
		return
	}

	resp := map[string]any{"path": path}

	if s.mirror != nil {
		key, err := s.mirror.UploadFile(r.Context(), path)
		if err != nil {
			s.logger.Warn("mirroring export failed", "path", path, "error", err)
			resp["mirror_error"] = err.Error()
		} else {
			resp["bucket"] = s.mirror.Bucket()
			resp["object_key"] = key
		}
	}

	s.publish(mqtt.EventUsersExported, mqtt.Event{Path: path})
	writeJSON(w, http.StatusOK, resp)
}
