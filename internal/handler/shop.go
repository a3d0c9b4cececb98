package handler

import (
	"net/http"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/logger"
	"github.com/osse101/TapQuest_Go/internal/shop"
)

// PurchaseRequest buys the next level of an upgrade
type PurchaseRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	ItemType string `json:"item_type" validate:"required,itemtype"`
}

// HandleListShop returns the upgrade catalog priced for the user
// @Summary List shop items
// @Tags shop
// @Produce json
// @Param id query string true "Telegram identity"
// @Success 200 {array} domain.ShopOffer
// @Failure 404 {object} ErrorResponse
// @Router /shop/items [get]
func HandleListShop(svc shop.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetQueryParam(r, w, QueryParamID)
		if !ok {
			return
		}

		offers, err := svc.Catalog(r.Context(), identity)
		if err != nil {
			respondServiceError(w, r, "List shop", err)
			return
		}
		respondJSON(w, http.StatusOK, offers)
	}
}

// HandlePurchase debits the balance and raises the item level atomically
// @Summary Purchase upgrade
// @Tags shop
// @Accept json
// @Produce json
// @Param request body PurchaseRequest true "Purchase"
// @Success 200 {object} domain.PurchaseResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /shop/purchase [post]
func HandlePurchase(svc shop.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PurchaseRequest
		if err := DecodeAndValidateRequest(r, w, &req, "purchase"); err != nil {
			return
		}

		res, err := svc.Purchase(r.Context(), req.UserID, domain.ItemType(req.ItemType))
		if err != nil {
			respondServiceError(w, r, "Purchase", err)
			return
		}

		logger.FromContext(r.Context()).Info("Upgrade purchased",
			"identity", req.UserID, "item", req.ItemType, "cost", res.Cost)
		respondJSON(w, http.StatusOK, res)
	}
}
