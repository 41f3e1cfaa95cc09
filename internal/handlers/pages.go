package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/Brownie44l1/agro-api/internal/model"
	"github.com/Brownie44l1/agro-api/internal/weather"
	"github.com/yuin/goldmark"
)

//go:embed templates/*.html content/*.md
var assets embed.FS

type menuItem struct {
	Title string
	Path  string
	Icon  string
}

var menu = []menuItem{
	{Title: "Home", Path: "/", Icon: "🏠"},
	{Title: "Plant Diseases", Path: "/diseases", Icon: "🔍"},
	{Title: "Plant Identification", Path: "/identify", Icon: "🌳"},
	{Title: "Weather", Path: "/weather", Icon: "☀️"},
	{Title: "Crop Yield", Path: "/yield", Icon: "📊"},
	{Title: "About", Path: "/about", Icon: "ℹ️"},
}

type option struct {
	Value string
	Label string
}

const (
	methodUpload = "upload"
	methodCamera = "camera"
)

var detectionMethods = []option{
	{Value: methodUpload, Label: "Upload Image"},
	{Value: methodCamera, Label: "Camera Input"},
}

type pageData struct {
	Title   string
	Heading string
	Menu    []menuItem
	Error   string
	Body    template.HTML

	Methods     []option
	Method      string
	UploadLabel string
	ResultLabel string
	ImageURI    template.URL
	Prediction  *model.Prediction

	City     string
	Forecast []weather.Entry

	Yield       model.YieldInput
	YieldResult *model.YieldPrediction
}

var (
	pages = map[string]*template.Template{
		"markdown": parsePage("markdown.html"),
		"classify": parsePage("classify.html"),
		"weather":  parsePage("weather.html"),
		"yield":    parsePage("yield.html"),
	}
	homeHTML  = renderMarkdown("content/home.md")
	aboutHTML = renderMarkdown("content/about.md")
)

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(assets, "templates/layout.html", "templates/"+name))
}

func renderMarkdown(path string) template.HTML {
	src, err := assets.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		panic(fmt.Sprintf("render %s: %v", path, err))
	}
	return template.HTML(buf.String())
}

func (h *Handler) render(w http.ResponseWriter, page string, data *pageData) {
	data.Menu = menu

	var buf bytes.Buffer
	if err := pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error("Template render failed", "page", page, "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) HomePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "markdown", &pageData{
		Title:   "Home",
		Heading: "🌿 Welcome to the Plant Disease Recognition System",
		Body:    homeHTML,
	})
}

func (h *Handler) AboutPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, "markdown", &pageData{
		Title:   "About",
		Heading: "About This Project",
		Body:    aboutHTML,
	})
}

func (h *Handler) DiseasePage(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("method")
	if method != methodCamera {
		method = methodUpload
	}

	data := &pageData{
		Title:       "Plant Diseases",
		Heading:     "Plant Disease Detection",
		Methods:     detectionMethods,
		Method:      method,
		UploadLabel: "Upload a leaf image",
		ResultLabel: "Prediction",
	}
	h.classifyPage(w, r, model.DiseaseModelName, h.disease, data, "Error during prediction")
}

func (h *Handler) IdentifyPage(w http.ResponseWriter, r *http.Request) {
	data := &pageData{
		Title:       "Plant Identification",
		Heading:     "🌳 Identify Plant Species",
		Method:      methodUpload,
		UploadLabel: "Upload a plant image",
		ResultLabel: "Identified Plant",
	}
	h.classifyPage(w, r, model.SpeciesModelName, h.species, data, "Error during identification")
}

func (h *Handler) classifyPage(w http.ResponseWriter, r *http.Request, name string, c ImageClassifier, data *pageData, errPrefix string) {
	if r.Method == http.MethodPost {
		up, err := h.readUpload(w, r)
		if err != nil {
			data.Error = fmt.Sprintf("%s: %v", errPrefix, err)
		} else {
			data.ImageURI = up.dataURI()
			data.Prediction, err = h.classify(r.Context(), name, c, up)
			if err != nil {
				h.logger.Error("Prediction failed", "model", name, "error", err)
				data.Error = fmt.Sprintf("%s: %v", errPrefix, err)
			}
		}
	}
	h.render(w, "classify", data)
}

func (h *Handler) WeatherPage(w http.ResponseWriter, r *http.Request) {
	data := &pageData{
		Title: "Weather",
		City:  strings.TrimSpace(r.URL.Query().Get("city")),
	}
	if data.City != "" {
		entries, err := h.forecast(r.Context(), data.City)
		if err != nil {
			data.Error = fmt.Sprintf("Error fetching weather: %v", err)
		}
		data.Forecast = entries
	}
	h.render(w, "weather", data)
}

func (h *Handler) YieldPage(w http.ResponseWriter, r *http.Request) {
	data := &pageData{Title: "Crop Yield"}
	if r.Method == http.MethodPost {
		in, err := h.decodeYieldInput(w, r)
		data.Yield = in
		if err == nil {
			data.YieldResult, err = h.predictYield(r.Context(), in)
		}
		if err != nil {
			data.Error = fmt.Sprintf("Error during prediction: %v", err)
		}
	}
	h.render(w, "yield", data)
}
