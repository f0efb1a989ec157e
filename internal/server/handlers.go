package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/funnel-cli/internal/funnel"
	"github.com/sells-group/funnel-cli/internal/monitoring"
	"github.com/sells-group/funnel-cli/internal/report"
)

const maxBodyBytes = 1 << 20

// formField is one input box of the calculator page.
type formField struct {
	Name        string
	Placeholder string
	AriaLabel   string
	Value       string
}

func emptyFields() []formField {
	return []formField{
		{Name: "inversion", Placeholder: "Inversión", AriaLabel: "Ingrese el monto de inversión"},
		{Name: "contactos", Placeholder: "Contactos", AriaLabel: "Ingrese el número de contactos"},
		{Name: "agendadas", Placeholder: "Agendadas", AriaLabel: "Ingrese el número de citas agendadas"},
		{Name: "asistidas", Placeholder: "Asistidas", AriaLabel: "Ingrese el número de citas asistidas"},
		{Name: "vendidas", Placeholder: "Vendidas", AriaLabel: "Ingrese el número de ventas realizadas"},
	}
}

type pageData struct {
	Title  string
	Fields []formField
	Report *report.Report
	Chart  *svgChart
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, pageData{Title: report.TitleChart, Fields: emptyFields()})
}

func (s *Server) handleCalculateForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	fields := emptyFields()
	raw := make([]string, len(fields))
	for i := range fields {
		raw[i] = r.PostFormValue(fields[i].Name)
		fields[i].Value = s.fmt.Normalize(raw[i])
	}

	in := funnel.ParseInput(raw[0], raw[1], raw[2], raw[3], raw[4])
	res := funnel.Compute(in)
	s.obs.ObserveCalculation(monitoring.SourceForm, res)

	rep := report.FromResult(in, res, s.fmt)
	chart := layoutChart(rep, s.fmt)
	s.render(w, r, pageData{Title: report.TitleChart, Fields: fields, Report: &rep, Chart: &chart})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.log.Error("render page failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// countField accepts either free text ("1.000.000") or a JSON number.
type countField int64

func (c *countField) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = countField(funnel.Parse(s))
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return eris.New("must be a string or a number")
	}
	if f <= 0 || math.IsNaN(f) || f >= math.MaxInt64 {
		*c = 0
		return nil
	}
	*c = countField(int64(f))
	return nil
}

type calculateRequest struct {
	Investment countField `json:"investment"`
	Contacts   countField `json:"contacts"`
	Scheduled  countField `json:"scheduled"`
	Attended   countField `json:"attended"`
	Sold       countField `json:"sold"`
}

func (req calculateRequest) input() funnel.Input {
	return funnel.Input{
		Investment: int64(req.Investment),
		Contacts:   int64(req.Contacts),
		Scheduled:  int64(req.Scheduled),
		Attended:   int64(req.Attended),
		Sold:       int64(req.Sold),
	}
}

type calculateResponse struct {
	Result funnel.Result `json:"result"`
	Report report.Report `json:"report"`
}

func (s *Server) handleCalculateAPI(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := req.input()
	res := funnel.Compute(in)
	s.obs.ObserveCalculation(monitoring.SourceAPI, res)

	writeJSON(w, http.StatusOK, calculateResponse{
		Result: res,
		Report: report.FromResult(in, res, s.fmt),
	})
}

type normalizeRequest struct {
	Value string `json:"value"`
}

type normalizeResponse struct {
	Value   string `json:"value"`
	Display string `json:"display"`
	Number  int64  `json:"number"`
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, normalizeResponse{
		Value:   req.Value,
		Display: s.fmt.Normalize(req.Value),
		Number:  funnel.Parse(req.Value),
	})
}

type benchmarksResponse struct {
	Benchmarks        []funnel.StageBenchmark `json:"benchmarks"`
	TargetCostPerSale float64                 `json:"target_cost_per_sale"`
	Legend            []report.LegendEntry    `json:"legend"`
}

func (s *Server) handleBenchmarks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, benchmarksResponse{
		Benchmarks:        funnel.Benchmarks(),
		TargetCostPerSale: funnel.TargetCostPerSale,
		Legend:            report.Legend(s.fmt),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return eris.Wrap(err, "server: decode body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
