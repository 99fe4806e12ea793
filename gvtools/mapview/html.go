package mapview

import (
	"fmt"
	"html/template"
	"io"

	"geoview-tools/gvtools/geo"
	"geoview-tools/gvtools/track"
)

// pathMargin pads the fitted path extent, in decimal degrees
const pathMargin = 0.001

var page = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/ol@v7.5.2/ol.css">
  <script src="https://cdn.jsdelivr.net/npm/ol@v7.5.2/dist/ol.js"></script>
  <style>#map { width: 100%; height: 480px; }</style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div id="status">Status: {{.Status}}</div>
  <div id="map"></div>
  <ul id="markers">
  {{- range .Markers}}
    <li class="marker" data-lat="{{.Lat}}" data-lng="{{.Lng}}" data-accuracy="{{.Accuracy}}">{{.Label}}</li>
  {{- end}}
  </ul>
  <script>
    const features = new ol.format.GeoJSON().readFeatures({{.Features}}, {featureProjection: "EPSG:3857"});
    const style = new ol.style.Style({
      image: new ol.style.Circle({radius: 6, fill: new ol.style.Fill({color: {{.Color}}})}),
      stroke: new ol.style.Stroke({color: {{.Color}}, width: 3})
    });
    const map = new ol.Map({
      target: "map",
      layers: [
        new ol.layer.Tile({source: new ol.source.OSM()}),
        new ol.layer.Vector({source: new ol.source.Vector({features: features}), style: style})
      ],
      view: new ol.View({center: ol.proj.fromLonLat([{{.CenterLng}}, {{.CenterLat}}]), zoom: {{.Zoom}}})
    });
    {{- if .Extent}}
    map.getView().fit(ol.proj.transformExtent({{.Extent}}, "EPSG:4326", "EPSG:3857"), {maxZoom: {{.Zoom}}});
    {{- end}}
  </script>
</body>
</html>
`))

type htmlMarker struct {
	Lat, Lng, Accuracy string
	Label              string
}

type htmlPage struct {
	Title     string
	Status    string
	Color     string
	Markers   []htmlMarker
	Features  template.JS
	CenterLat float64
	CenterLng float64
	Zoom      int
	Extent    []float64 // min lng, min lat, max lng, max lat
}

// WriteHTML renders the map as a standalone OpenLayers page
func (m *Map) WriteHTML(w io.Writer) error {
	data, err := m.GeoJSON().MarshalJSON()
	if err != nil {
		return err
	}

	p := htmlPage{
		Title:    m.Title,
		Status:   m.Status(),
		Color:    m.Color,
		Features: template.JS(data),
	}

	markers := m.Markers()
	for _, mk := range markers {
		pt := mk.Point
		p.Markers = append(p.Markers, htmlMarker{
			Lat:      fmt.Sprintf("%.6f", pt.Lat()),
			Lng:      fmt.Sprintf("%.6f", pt.Lng()),
			Accuracy: fmt.Sprintf("%g", pt.Accuracy()),
			Label:    fmt.Sprintf("Latitude: %.6f, Longitude: %.6f, Accuracy: %g meter", pt.Lat(), pt.Lng(), pt.Accuracy()),
		})
	}

	if center, zoom, ok := m.View(); ok {
		p.CenterLat = center.Lat()
		p.CenterLng = center.Lng()
		p.Zoom = zoom
	}

	// a path is shown whole, centered on its bounds
	if m.ShowPath && len(markers) > 1 {
		pts := make([]geo.Point, len(markers))
		for i, mk := range markers {
			pts[i] = mk.Point
		}
		if b, ok := track.FromPoints(pts).Bounds(); ok {
			b = b.Extend(pathMargin)
			p.CenterLat, p.CenterLng = b.Center()
			p.Extent = []float64{b.MinLng, b.MinLat, b.MaxLng, b.MaxLat}
		}
	}

	return page.Execute(w, p)
}
