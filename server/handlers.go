package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"io/ioutil"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/gorilla/mux"

	"github.com/voidshard/qudmap"
)

// transitionRequest is the body of POST /api/transition.
type transitionRequest struct {
	Start  qudmap.Viewport `json:"start"`
	End    qudmap.Viewport `json:"end"`
	Active int             `json:"active"`
}

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.View)
}

// handleTransition settles a zoom gesture for the page.
func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	req := transitionRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("decoding transition: %w", err))
		return
	}
	respondJSON(w, http.StatusOK, qudmap.OnZoomTransitionEnd(s.View, req.Start, req.End, req.Active))
}

func (s *Server) handleTileURL(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ints := map[string]int{}
	for _, k := range []string{"x", "y", "z"} {
		v, err := strconv.Atoi(q.Get(k))
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Errorf("query param %s: %w", k, err))
			return
		}
		ints[k] = v
	}
	addr := qudmap.TileAddress{X: ints["x"], Y: ints["y"], Z: ints["z"]}

	var lvl *qudmap.Level
	if q.Get("level") != "" {
		id, err := strconv.Atoi(q.Get("level"))
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Errorf("query param level: %w", err))
			return
		}
		var ok bool
		lvl, ok = s.View.Level(id)
		if !ok {
			respondError(w, http.StatusNotFound, fmt.Errorf("no level %d", id))
			return
		}
	} else {
		lvl = s.View.LevelFor(float64(addr.Z))
		if lvl == nil {
			respondError(w, http.StatusNotFound, fmt.Errorf("zoom %d shows the overlay", addr.Z))
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"level": lvl.ID, "url": lvl.TileURL(addr)})
}

// handleTileRedirect lets the page use a plain {z}/{x}/{y} template per level.
func (s *Server) handleTileRedirect(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	// the route regexps guarantee these parse
	id, _ := strconv.Atoi(vars["level"])
	z, _ := strconv.Atoi(vars["z"])
	x, _ := strconv.Atoi(vars["x"])
	y, _ := strconv.Atoi(vars["y"])

	lvl, ok := s.View.Level(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, lvl.TileURL(qudmap.TileAddress{X: x, Y: y, Z: z}), http.StatusFound)
}

// handleTile serves a tile file by its conventional name.
func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	level, x, y, ext, err := qudmap.ParseTileFile(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, err := s.tile(name, level, x, y)
	if errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("reading tile", "tile", name, "err", err)
		http.Error(w, "failed to read tile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType(ext))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

// tile returns the bytes of a tile file, from memory if possible.
func (s *Server) tile(name string, level, x, y int) ([]byte, error) {
	if data, ok := s.cache.Get(name); ok {
		return data, nil
	}

	data, err := ioutil.ReadFile(filepath.Join(s.Config.TilesDir, name))
	if errors.Is(err, fs.ErrNotExist) && s.Index != nil {
		rec, ierr := s.Index.Get(level, x, y)
		if ierr != nil {
			return nil, ierr
		}
		if rec != nil {
			data, err = ioutil.ReadFile(rec.Path)
		}
	}
	if err != nil {
		return nil, err
	}

	s.cache.Add(name, data)
	return data, nil
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	name := path.Base(mux.Vars(r)["name"])
	http.ServeFile(w, r, filepath.Join(s.Config.WorldDir, name))
}

// handleDebugTile draws a tile outlined in red holding its own coordinates.
func handleDebugTile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	label := fmt.Sprintf("%s, %s, %s", vars["x"], vars["y"], vars["z"])

	const size = 256
	dc := gg.NewContext(size, size)
	dc.SetRGB(1, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(0.5, 0.5, size-1, size-1)
	dc.Stroke()
	dc.DrawStringAnchored(label, size/2, size/2, 0.5, 0.5)

	w.Header().Set("Content-Type", "image/png")
	if err := dc.EncodePNG(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func contentType(ext string) string {
	switch ext {
	case "webp":
		return "image/webp"
	case "png":
		return "image/png"
	}
	if t := mime.TypeByExtension("." + ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
