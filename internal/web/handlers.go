package web

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/tirta-iot/tirta/internal/auth"
	"github.com/tirta-iot/tirta/internal/data"
	"github.com/tirta-iot/tirta/internal/encryption"
)

// pumpStatusResponse is the payload the device acts on after every report
// and status poll.
type pumpStatusResponse struct {
	PumpOn   bool `json:"pump_on"`
	AutoMode bool `json:"auto_mode"`
}

// handleData ingests a plaintext water level report and responds with the
// pump state the device should apply.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LevelCM float64 `json:"level_cm"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.LevelCM < 0 || req.LevelCM > s.config.Device.TankHeightCM {
		writeError(w, http.StatusBadRequest, "level_cm outside tank bounds")
		return
	}

	reading := &data.Reading{LevelCM: &req.LevelCM}
	if err := data.CreateReading(s.db, reading); err != nil {
		s.logger.Errorf("[web] storing reading: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store reading")
		return
	}
	s.markDeviceSeen()

	state, err := data.GetPumpState(s.db)
	if err != nil {
		s.logger.Errorf("[web] loading pump state: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load pump state")
		return
	}

	if s.controller.Apply(state, req.LevelCM) {
		s.logger.Infof("[web] auto mode switched pump %s at %.1fcm", onOff(state.PumpOn), req.LevelCM)
		if err := data.SavePumpState(s.db, state); err != nil {
			s.logger.Errorf("[web] saving pump state: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to save pump state")
			return
		}
		s.cache.Delete(statusCacheKey)
	}

	writeJSON(w, http.StatusOK, pumpStatusResponse{PumpOn: state.PumpOn, AutoMode: state.AutoMode})
}

// handleEncryptedData ingests a ciphertext report. Only the hex shape is
// checked; the server holds no key and never decrypts on this path, so
// the stored row is exactly what the device sent.
func (s *Server) handleEncryptedData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EncryptedLevel string `json:"encrypted_level"`
		Algorithm      string `json:"algorithm"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.EncryptedLevel == "" || len(req.EncryptedLevel)%2 != 0 {
		writeError(w, http.StatusBadRequest, "encrypted_level must be a non-empty even-length hex string")
		return
	}
	if _, err := hex.DecodeString(req.EncryptedLevel); err != nil {
		writeError(w, http.StatusBadRequest, "encrypted_level is not valid hex")
		return
	}

	algorithm, err := encryption.ParseAlgorithm(req.Algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tag := string(algorithm)
	if algorithm == encryption.AlgorithmAuto {
		// The device did not say which cipher it used; the dashboard's
		// decrypt path will auto-detect.
		tag = ""
	}

	reading := &data.Reading{EncryptedLevel: req.EncryptedLevel, Algorithm: tag}
	if err := data.CreateReading(s.db, reading); err != nil {
		s.logger.Errorf("[web] storing encrypted reading: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store reading")
		return
	}
	s.markDeviceSeen()

	// No level is known server-side, so auto mode cannot re-evaluate here;
	// the device runs its own hysteresis when auto mode is on.
	state, err := data.GetPumpState(s.db)
	if err != nil {
		s.logger.Errorf("[web] loading pump state: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load pump state")
		return
	}

	writeJSON(w, http.StatusOK, pumpStatusResponse{PumpOn: state.PumpOn, AutoMode: state.AutoMode})
}

// handleStatus answers the device's poll loop, served from cache when the
// state was fetched within the last couple of seconds.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.markDeviceSeen()

	if cached, found := s.cache.Get(statusCacheKey); found {
		writeJSON(w, http.StatusOK, cached.(pumpStatusResponse))
		return
	}

	state, err := data.GetPumpState(s.db)
	if err != nil {
		s.logger.Errorf("[web] loading pump state: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load pump state")
		return
	}

	response := pumpStatusResponse{PumpOn: state.PumpOn, AutoMode: state.AutoMode}
	s.cache.SetDefault(statusCacheKey, response)
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := auth.VerifyAccount(s.db, req.Username, req.Password)
	if err != nil {
		s.logger.Debugf("[web] login rejected for %q: %v", req.Username, err)
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	ttl := time.Duration(s.config.Auth.TokenTTLMinutes) * time.Minute
	token, err := auth.NewToken(s.config.Auth.JWTSecret, account.Username, ttl)
	if err != nil {
		s.logger.Errorf("[web] issuing session token: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// readingResponse is one history entry for the dashboard chart. Encrypted
// readings expose the ciphertext for client-side decryption.
type readingResponse struct {
	ID             uint64    `json:"id"`
	LevelCM        *float64  `json:"level_cm,omitempty"`
	EncryptedLevel string    `json:"encrypted_level,omitempty"`
	Algorithm      string    `json:"algorithm,omitempty"`
	ReceivedAt     time.Time `json:"received_at"`
}

const (
	defaultReadingsLimit = 50
	maxReadingsLimit     = 500
)

func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	limit := defaultReadingsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxReadingsLimit {
		limit = maxReadingsLimit
	}

	readings, err := data.RecentReadings(s.db, limit)
	if err != nil {
		s.logger.Errorf("[web] loading readings: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load readings")
		return
	}

	response := make([]readingResponse, 0, len(readings))
	for _, reading := range readings {
		response = append(response, readingResponse{
			ID:             reading.ID,
			LevelCM:        reading.LevelCM,
			EncryptedLevel: reading.EncryptedLevel,
			Algorithm:      reading.Algorithm,
			ReceivedAt:     reading.ReceivedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

// handlePump applies a manual override. Taking manual control always
// disables auto mode; re-enabling it goes through /api/mode.
func (s *Server) handlePump(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PumpOn bool `json:"pump_on"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := data.GetPumpState(s.db)
	if err != nil {
		s.logger.Errorf("[web] loading pump state: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load pump state")
		return
	}

	state.PumpOn = req.PumpOn
	state.AutoMode = false
	if err := data.SavePumpState(s.db, state); err != nil {
		s.logger.Errorf("[web] saving pump state: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save pump state")
		return
	}
	s.cache.Delete(statusCacheKey)

	s.logger.Infof("[web] %s manually switched pump %s", requestUser(r), onOff(state.PumpOn))
	writeJSON(w, http.StatusOK, pumpStatusResponse{PumpOn: state.PumpOn, AutoMode: state.AutoMode})
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AutoMode bool `json:"auto_mode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := data.GetPumpState(s.db)
	if err != nil {
		s.logger.Errorf("[web] loading pump state: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load pump state")
		return
	}

	state.AutoMode = req.AutoMode
	if err := data.SavePumpState(s.db, state); err != nil {
		s.logger.Errorf("[web] saving pump state: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save pump state")
		return
	}
	s.cache.Delete(statusCacheKey)

	s.logger.Infof("[web] %s set auto mode to %v", requestUser(r), state.AutoMode)
	writeJSON(w, http.StatusOK, pumpStatusResponse{PumpOn: state.PumpOn, AutoMode: state.AutoMode})
}

// handleDecrypt runs the cipher dispatcher over a stored ciphertext with
// the dashboard user's key. Failure here is routine (wrong key, wrong
// algorithm) and is reported as an unprocessable request, not a fault.
func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EncryptedLevel string `json:"encrypted_level"`
		Key            string `json:"key"`
		Algorithm      string `json:"algorithm"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hint, err := encryption.ParseAlgorithm(req.Algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := encryption.Decode(req.EncryptedLevel, req.Key, hint)
	if err != nil {
		if !encryption.IsExpectedDecodeFailure(err) && !errors.Is(err, encryption.ErrInvalidKey) {
			s.logger.Errorf("[web] decrypt failed unexpectedly: %v", err)
		} else {
			s.logger.Debugf("[web] decrypt attempt failed: %v", err)
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"decrypted": false,
			"error":     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"decrypted": true,
		"value":     result.Value,
		"algorithm": string(result.Algorithm),
	})
}

// handleHealth reports liveness plus when the device last checked in.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{"status": "ok"}
	if lastSeen, found := s.cache.Get(lastSeenCacheKey); found {
		response["device_last_seen"] = lastSeen.(time.Time)
	}
	writeJSON(w, http.StatusOK, response)
}

// markDeviceSeen records the device's last contact. Kept for an hour so
// the health endpoint can report a stale device rather than forgetting it.
func (s *Server) markDeviceSeen() {
	s.cache.Set(lastSeenCacheKey, time.Now(), time.Hour)
}

func requestUser(r *http.Request) string {
	if username, ok := r.Context().Value(usernameContextKey).(string); ok {
		return username
	}
	return "unknown"
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
