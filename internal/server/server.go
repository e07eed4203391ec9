package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"korean_news_vn/internal/catalog"
	"korean_news_vn/internal/controller"
	"korean_news_vn/internal/logger"
	"korean_news_vn/internal/metrics"
	"korean_news_vn/internal/middleware"
	"korean_news_vn/internal/translator"
	"korean_news_vn/internal/view"
)

//go:embed templates/index.html
var templates embed.FS

var indexTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

// Server хранит зависимости HTTP-обработчиков: контроллер, переводчик и метрики.
type Server struct {
	ctx         context.Context
	ctrl        *controller.Controller
	translator  translator.Translator
	metrics     *metrics.Metrics
	pollSeconds int
}

// NewServer создаёт Server. ctx ограничивает фоновые обновления, запущенные
// из HTML-форм; pollSeconds задаёт период перезагрузки страницы при автообновлении.
func NewServer(ctx context.Context, ctrl *controller.Controller, t translator.Translator, m *metrics.Metrics, pollSeconds int) *Server {
	return &Server{ctx: ctx, ctrl: ctrl, translator: t, metrics: m, pollSeconds: pollSeconds}
}

// Handler собирает маршруты и middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.Index)
	mux.HandleFunc("GET /health", s.HealthCheck)
	mux.HandleFunc("GET /api/state", s.GetState)
	mux.HandleFunc("GET /api/sources", s.GetSources)
	mux.HandleFunc("POST /api/refresh", s.Refresh)
	mux.HandleFunc("POST /api/source/{id}", s.SelectSource)
	mux.HandleFunc("POST /api/auto-refresh", s.SetAutoRefresh)
	mux.HandleFunc("POST /api/translate", s.Translate)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return middleware.Chain(mux,
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(s.metrics),
	)
}

// HealthCheck всегда отвечает 200 OK: у виджета нет внешних зависимостей в пути отрисовки.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// Index отрисовывает виджет целиком.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Page        view.Page
		Skeletons   []struct{}
		PollSeconds int
	}{
		Page:        view.Build(s.ctrl.State()),
		Skeletons:   make([]struct{}, view.PlaceholderCards),
		PollSeconds: s.pollSeconds,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		logger.Log.WithField("request_id", middleware.RequestID(r.Context())).Errorf("Render failed: %v", err)
	}
}

// GetState возвращает текущее ViewState в JSON.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

// GetSources возвращает вкладки: "all" и четыре издания.
func (s *Server) GetSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.Tabs(s.ctrl.State().Source))
}

// Refresh пересчитывает список. JSON-клиент ждёт окончания обновления,
// HTML-форма получает редирект и видит заглушки загрузки.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, func(ctx context.Context) error {
		return s.ctrl.Refresh(ctx)
	})
}

// SelectSource переключает вкладку. Неизвестный id не ошибка: список будет пустым.
func (s *Server) SelectSource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.run(w, r, func(ctx context.Context) error {
		return s.ctrl.SelectSource(ctx, id)
	})
}

// SetAutoRefresh принимает {"enabled": bool} или поле формы enabled.
func (s *Server) SetAutoRefresh(w http.ResponseWriter, r *http.Request) {
	var enabled bool
	if isForm(r) {
		v, err := strconv.ParseBool(r.PostFormValue("enabled"))
		if err != nil {
			http.Error(w, "Invalid enabled value", http.StatusBadRequest)
			return
		}
		enabled = v
	} else {
		var body struct {
			Enabled *bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Enabled == nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		enabled = *body.Enabled
	}

	s.ctrl.SetAutoRefresh(enabled)
	if isForm(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

type translateRequest struct {
	translator.Request
	ItemID int `json:"item_id,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	Fallback       bool   `json:"fallback"`
	ErrorKind      string `json:"error_kind,omitempty"`
}

// Translate переводит произвольный текст или заголовок новости по item_id.
// Ошибка сервиса перевода не делает ответ неуспешным: возвращается исходный
// текст и вид ошибки.
func (s *Server) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ItemID != 0 {
		item, ok := catalog.Lookup(req.ItemID)
		if !ok {
			http.Error(w, "Unknown item", http.StatusNotFound)
			return
		}
		req.Text = item.TitleKo
	}
	if req.Text == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}

	out, err := s.translator.Translate(r.Context(), req.Request)
	if err != nil {
		kind := translator.KindOf(err)
		if kind == "" {
			kind = translator.KindTransport
		}
		s.metrics.ObserveTranslation(s.translator.Provider(), string(kind))
		logger.Log.WithFields(map[string]interface{}{
			"provider":   s.translator.Provider(),
			"request_id": middleware.RequestID(r.Context()),
		}).Warnf("Translation fell back to original text: %v", err)
		writeJSON(w, http.StatusOK, translateResponse{TranslatedText: req.Text, Fallback: true, ErrorKind: string(kind)})
		return
	}

	s.metrics.ObserveTranslation(s.translator.Provider(), "ok")
	writeJSON(w, http.StatusOK, translateResponse{TranslatedText: out})
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, op func(context.Context) error) {
	if isForm(r) {
		go func() {
			if err := op(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.Warnf("Background refresh failed: %v", err)
			}
		}()
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := op(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, controller.ErrClosed) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func isForm(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorf("Failed to encode response: %v", err)
	}
}
