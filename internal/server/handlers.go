package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"atelier/internal/catalog"
	"atelier/internal/orders"
	"atelier/internal/search"
	"atelier/internal/types"

	"github.com/gin-gonic/gin"
)

type searchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

type searchResponse struct {
	Results  []types.ProductCandidate `json:"results"`
	Tier     string                   `json:"tier"`
	Stale    bool                     `json:"stale"`
	Seq      uint64                   `json:"seq"`
	Failures []search.TierFailure     `json:"failures,omitempty"`
}

type orderRequest struct {
	Product types.ProductCandidate `json:"product"`
	Context types.CustomerContext  `json:"context"`
}

type statusRequest struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "tiers": s.deps.Search.Tiers()})
}

func (s *Server) usage(c *gin.Context) {
	if s.deps.Usage == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": true, "usage": s.deps.Usage.Stats()})
}

func (s *Server) listStores(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stores": catalog.Stores()})
}

func (s *Server) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search request"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	res, stale := s.session(c).Search(c.Request.Context(), search.Query{Text: req.Query, Category: req.Category})
	resp := searchResponse{Tier: res.Tier, Stale: stale, Seq: res.Seq, Failures: res.Failures}
	if !stale {
		resp.Results = res.Candidates
	}
	if resp.Results == nil {
		resp.Results = []types.ProductCandidate{}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) recentSearches(c *gin.Context) {
	recent := []types.SearchRecord{}
	if sess, ok := s.existingSession(c); ok {
		recent = sess.Recent()
	}
	c.JSON(http.StatusOK, gin.H{"searches": recent})
}

func (s *Server) quote(c *gin.Context) {
	price, err := strconv.ParseFloat(c.Query("price"), 64)
	if err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a non-negative number"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"breakdown":        orders.Quote(price),
		"deliveryOnline":   orders.OnlineLeadTime.String(),
		"deliveryInPerson": orders.InPersonLeadTime.String(),
	})
}

func (s *Server) createOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order request"})
		return
	}
	if req.Context.Source == "" {
		req.Context.Source = "web"
	}
	if req.Context.Timestamp.IsZero() {
		req.Context.Timestamp = time.Now()
	}

	placement := s.deps.Concierge.Checkout(c.Request.Context(), req.Product, req.Context)
	status := http.StatusCreated
	if placement.Order == nil {
		// The request still reached the shopper as a raw product message.
		status = http.StatusAccepted
	}
	c.JSON(status, placement)
}

func (s *Server) listOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	if s.deps.Mirror != nil {
		summaries, err := s.deps.Mirror.List(c.Request.Context(), limit)
		if err == nil {
			if summaries == nil {
				summaries = []types.OrderSummary{}
			}
			c.JSON(http.StatusOK, gin.H{"orders": summaries, "source": "mirror"})
			return
		}
		c.Error(err)
	}

	list := s.deps.Orders.List()
	summaries := make([]types.OrderSummary, 0, len(list))
	for _, o := range list {
		if limit > 0 && len(summaries) >= limit {
			break
		}
		summaries = append(summaries, o.Summary())
	}
	c.JSON(http.StatusOK, gin.H{"orders": summaries, "source": "memory"})
}

func (s *Server) getOrder(c *gin.Context) {
	order, ok := s.deps.Orders.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	order, ok := s.deps.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), types.OrderStatus(strings.TrimSpace(req.Status)), req.Message)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}
