package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"shopsight/analytics"
)

// Hex codes for the placeholder product images, keyed by color name.
var colorCodes = map[string]string{
	"Siyah":   "000000",
	"Beyaz":   "F5F5F5",
	"Mavi":    "0000FF",
	"Kırmızı": "FF0000",
	"Yeşil":   "008000",
}

const defaultColor = "Siyah"

// handleListProducts serves the storefront catalog with search, category
// filter and price/popularity sorting.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	listings, err := s.catalog.ListProducts(r.Context(), query.Get("q"), query.Get("category"), query.Get("sort"))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list products", err)
		return
	}

	type listing struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Price    float64 `json:"price"`
		Clicks   int64   `json:"clicks"`
		Image    string  `json:"image"`
	}

	out := make([]listing, 0, len(listings))
	for _, p := range listings {
		out = append(out, listing{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price,
			Clicks:   p.Clicks,
			Image:    catalogImage(p.Name),
		})
	}

	writeJSON(w, map[string]interface{}{
		"products": out,
		"count":    len(out),
	})
}

// handleGetProduct serves one product with its color-specific placeholder
// image. A `user_id` parameter records a page view click for that user,
// the way the storefront logs views for signed-in shoppers; session
// handling itself lives outside this service.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid product id", nil)
		return
	}
	ctx := r.Context()

	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load product", err)
		return
	}
	if product == nil {
		respondWithError(w, http.StatusNotFound, "product not found", nil)
		return
	}

	color := r.URL.Query().Get("color")
	if _, known := colorCodes[color]; !known {
		color = defaultColor
	}

	if userID := int64(getIntParam(r, "user_id", 0, nil, nil)); userID > 0 {
		if err := s.catalog.RecordClick(ctx, userID, id); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to record click", err)
			return
		}
		s.publish("click", map[string]interface{}{"user_id": userID, "product_id": id})
	}

	writeJSON(w, map[string]interface{}{
		"product":        product,
		"image":          productImage(product.Name, color),
		"selected_color": color,
		"colors":         analytics.AllColors,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list categories", err)
		return
	}
	writeJSON(w, map[string]interface{}{"categories": categories})
}

// handleClick ingests an explicit click event.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "invalid product id", nil)
		return
	}

	var body struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.UserID <= 0 {
		respondWithError(w, http.StatusBadRequest, "user_id required", err)
		return
	}

	if err := s.catalog.RecordClick(r.Context(), body.UserID, id); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to record click", err)
		return
	}

	s.publish("click", map[string]interface{}{"user_id": body.UserID, "product_id": id})
	writeJSON(w, map[string]interface{}{"success": true})
}

// handlePurchase ingests a purchase event and invalidates the cached
// reports it affects.
func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID    int64  `json:"user_id"`
		ProductID int64  `json:"product_id"`
		Color     string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if body.UserID <= 0 || body.ProductID <= 0 {
		respondWithError(w, http.StatusBadRequest, "user_id and product_id required", nil)
		return
	}
	if _, known := colorCodes[body.Color]; !known {
		respondWithError(w, http.StatusBadRequest, "unknown color", nil)
		return
	}
	ctx := r.Context()

	purchase, err := s.catalog.RecordPurchase(ctx, body.UserID, body.ProductID, body.Color)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to record purchase", err)
		return
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, dashboardCacheKey)
		_ = s.cache.Delete(ctx, fmt.Sprintf(productCacheFmt, body.ProductID))
	}

	s.publish("purchase", purchase)
	writeJSON(w, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s rengi satın alındı.", body.Color),
	})
}

func catalogImage(name string) string {
	return fmt.Sprintf("https://placehold.co/400x400/2c3e50/FFFFFF/png?text=%s", strings.ReplaceAll(name, " ", "+"))
}

func productImage(name, color string) string {
	textColor := "FFFFFF"
	if color == "Beyaz" {
		textColor = "000000"
	}
	return fmt.Sprintf("https://placehold.co/500x500/%s/%s/png?text=%s+(%s)",
		colorCodes[color], textColor, strings.ReplaceAll(name, " ", "+"), color)
}
