package sink

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/ghalamif/MineFlow/internal/domain"
	"github.com/ghalamif/MineFlow/internal/ports"
)

// Latest keeps the most recent version of every view and serves them as
// JSON, which is what the dashboard front end polls.
type Latest struct {
	mu    sync.RWMutex
	order []string
	views map[string]domain.View
}

func NewLatest() *Latest {
	return &Latest{views: make(map[string]domain.View)}
}

func (l *Latest) Name() string { return "latest" }

func (l *Latest) Render(v domain.View) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.views[v.Name]; !ok {
		l.order = append(l.order, v.Name)
	}
	l.views[v.Name] = v
	return nil
}

// Views returns the latest views in first-rendered order.
func (l *Latest) Views() []domain.View {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.View, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.views[name])
	}
	return out
}

// View returns a single view by name.
func (l *Latest) View(name string) (domain.View, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.views[name]
	return v, ok
}

// ServeHTTP writes every view, or only ?name=<view> when given.
func (l *Latest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload any
	if name := r.URL.Query().Get("name"); name != "" {
		v, ok := l.View(name)
		if !ok {
			http.Error(w, "unknown view", http.StatusNotFound)
			return
		}
		payload = v
	} else {
		payload = l.Views()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

var _ ports.ViewSink = (*Latest)(nil)
