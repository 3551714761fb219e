package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"asset-marketplace/internal/adapter/http/dto"
	"asset-marketplace/internal/adapter/http/middleware"
	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/internal/core/ports/mocks"
	"asset-marketplace/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	handlerTestSeller = "0x1111111111111111111111111111111111111111"
	handlerTestBuyer  = "0x2222222222222222222222222222222222222222"
	handlerTestNFT    = "0x3333333333333333333333333333333333333333"
)

func tokenParams(nft, tokenID string) gin.Params {
	return gin.Params{
		{Key: "nft", Value: nft},
		{Key: "token_id", Value: tokenID},
	}
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	accountID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Username: "testuser",
		Password: "password123",
	}).Return(&ports.RegisterResponse{
		AccountID: accountID,
		Address:   handlerTestSeller,
		AccessKey: "ak_test",
		SecretKey: "sk_test",
	}, nil)

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "testuser",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, accountID.String(), data["account_id"])
	assert.Equal(t, handlerTestSeller, data["address"])
	assert.Equal(t, "ak_test", data["access_key"])
	assert.Equal(t, "sk_test", data["secret_key"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_UsernameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrUsernameExists())

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "taken",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "testuser", "password123").Return("jwt-token-123", expiry, nil)

	body, _ := json.Marshal(dto.LoginRequest{
		Username: "testuser",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad", "badpassword").Return("", time.Time{}, apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{
		Username: "bad",
		Password: "badpassword",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Market Handler Tests ---

func TestListItem_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	now := time.Now()
	mockMarket.EXPECT().ListItem(gomock.Any(), ports.ListItemRequest{
		Seller:     handlerTestSeller,
		NFTAddress: handlerTestNFT,
		TokenID:    7,
		Price:      100,
	}).Return(&domain.Listing{
		NFTAddress: handlerTestNFT,
		TokenID:    7,
		Seller:     handlerTestSeller,
		Price:      100,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil)

	body, _ := json.Marshal(dto.ListItemRequest{
		NFTAddress: handlerTestNFT,
		TokenID:    7,
		Price:      100,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.ListItem(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, handlerTestNFT, data["nft_address"])
	assert.Equal(t, float64(7), data["token_id"])
	assert.Equal(t, float64(100), data["price"])
}

func TestListItem_MissingCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.ListItem(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListItem_ZeroPriceRejectedByBinding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	body := []byte(`{"nft_address":"` + handlerTestNFT + `","token_id":7,"price":0}`)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.ListItem(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListItem_AlreadyListed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().ListItem(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrAlreadyListed(handlerTestNFT, 7))

	body, _ := json.Marshal(dto.ListItemRequest{
		NFTAddress: handlerTestNFT,
		TokenID:    7,
		Price:      100,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.ListItem(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MKT_002", resp["error_code"])
}

func TestUpdatePrice_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	now := time.Now()
	mockMarket.EXPECT().UpdateListing(gomock.Any(), ports.UpdateListingRequest{
		Seller:     handlerTestSeller,
		NFTAddress: handlerTestNFT,
		TokenID:    7,
		NewPrice:   250,
	}).Return(&domain.Listing{
		NFTAddress: handlerTestNFT,
		TokenID:    7,
		Seller:     handlerTestSeller,
		Price:      250,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil)

	body, _ := json.Marshal(dto.UpdatePriceRequest{NewPrice: 250})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = tokenParams(handlerTestNFT, "7")
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.UpdatePrice(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(250), data["price"])
}

func TestUpdatePrice_BadTokenID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	body, _ := json.Marshal(dto.UpdatePriceRequest{NewPrice: 250})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = tokenParams(handlerTestNFT, "not-a-number")
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.UpdatePrice(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelListing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().CancelListing(gomock.Any(), ports.CancelListingRequest{
		Seller:     handlerTestSeller,
		NFTAddress: handlerTestNFT,
		TokenID:    7,
	}).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = tokenParams(handlerTestNFT, "7")
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.CancelListing(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCancelListing_NotOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().CancelListing(gomock.Any(), gomock.Any()).Return(apperror.ErrNotOwner())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/", nil)
	c.Params = tokenParams(handlerTestNFT, "7")
	c.Set(middleware.CtxAddress, handlerTestBuyer)

	h.CancelListing(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBuyItem_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().BuyItem(gomock.Any(), ports.BuyItemRequest{
		Buyer:      handlerTestBuyer,
		NFTAddress: handlerTestNFT,
		TokenID:    7,
		Payment:    100,
	}).Return(&ports.Purchase{
		NFTAddress: handlerTestNFT,
		TokenID:    7,
		Buyer:      handlerTestBuyer,
		Seller:     handlerTestSeller,
		Price:      100,
		Payment:    100,
	}, nil)

	body, _ := json.Marshal(dto.BuyItemRequest{Payment: 100})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = tokenParams(handlerTestNFT, "7")
	c.Set(middleware.CtxAddress, handlerTestBuyer)

	h.BuyItem(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, handlerTestBuyer, data["buyer"])
	assert.Equal(t, handlerTestSeller, data["seller"])
	assert.Equal(t, float64(100), data["price"])
}

func TestBuyItem_PriceNotMet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().BuyItem(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrPriceNotMet(handlerTestNFT, 7, 100))

	body, _ := json.Marshal(dto.BuyItemRequest{Payment: 50})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = tokenParams(handlerTestNFT, "7")
	c.Set(middleware.CtxAddress, handlerTestBuyer)

	h.BuyItem(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MKT_006", resp["error_code"])
}

func TestWithdrawProceeds_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().WithdrawProceeds(gomock.Any(), handlerTestSeller).Return(int64(300), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.WithdrawProceeds(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, handlerTestSeller, data["address"])
	assert.Equal(t, float64(300), data["amount"])
}

func TestWithdrawProceeds_NoProceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().WithdrawProceeds(gomock.Any(), handlerTestSeller).Return(int64(0), apperror.ErrNoProceeds())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.WithdrawProceeds(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MKT_007", resp["error_code"])
}

func TestGetListing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	now := time.Now()
	mockMarket.EXPECT().GetListing(gomock.Any(), handlerTestNFT, uint64(7)).Return(&domain.Listing{
		NFTAddress: handlerTestNFT,
		TokenID:    7,
		Seller:     handlerTestSeller,
		Price:      100,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = tokenParams(handlerTestNFT, "7")

	h.GetListing(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, handlerTestSeller, data["seller"])
}

func TestGetListing_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().GetListing(gomock.Any(), handlerTestNFT, uint64(404)).Return(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = tokenParams(handlerTestNFT, "404")

	h.GetListing(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MKT_003", resp["error_code"])
}

func TestBrowseListings_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	now := time.Now()
	mockMarket.EXPECT().BrowseListings(gomock.Any(), ports.ListingPageParams{
		Page:     1,
		PageSize: 20,
	}).Return([]domain.Listing{
		{NFTAddress: handlerTestNFT, TokenID: 7, Seller: handlerTestSeller, Price: 100, CreatedAt: now, UpdatedAt: now},
	}, int64(1), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=1&page_size=20", nil)

	h.BrowseListings(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(1), data["total"])
	assert.Equal(t, float64(1), data["total_pages"])
}

func TestBrowseListings_CollectionFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	nft := handlerTestNFT
	mockMarket.EXPECT().BrowseListings(gomock.Any(), ports.ListingPageParams{
		NFTAddress: &nft,
		Page:       1,
		PageSize:   20,
	}).Return([]domain.Listing{}, int64(0), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?nft="+handlerTestNFT, nil)

	h.BrowseListings(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBrowseListings_BadCollectionAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?nft=not-an-address", nil)

	h.BrowseListings(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProceeds_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	mockMarket.EXPECT().GetProceeds(gomock.Any(), handlerTestSeller).Return(int64(500), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "address", Value: handlerTestSeller}}

	h.GetProceeds(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(500), data["balance"])
}

func TestGetProceeds_BadAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewMarketHandler(mockMarket)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "address", Value: "0x123"}}

	h.GetProceeds(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Dashboard Handler Tests ---

func TestMyListings_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewDashboardHandler(mockMarket)

	now := time.Now()
	mockMarket.EXPECT().ListingsBySeller(gomock.Any(), handlerTestSeller).Return([]domain.Listing{
		{NFTAddress: handlerTestNFT, TokenID: 7, Seller: handlerTestSeller, Price: 100, CreatedAt: now, UpdatedAt: now},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.MyListings(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 1)
}

func TestMyProceeds_MissingToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewDashboardHandler(mockMarket)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.MyProceeds(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecentEvents_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewDashboardHandler(mockMarket)

	mockMarket.EXPECT().RecentEvents(gomock.Any(), 10).Return([]domain.Event{
		*domain.NewListedEvent(handlerTestSeller, handlerTestNFT, 7, 100),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?limit=10", nil)
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.RecentEvents(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	require.Len(t, items, 1)
	event := items[0].(map[string]interface{})
	assert.Equal(t, "ITEM_LISTED", event["type"])
}

func TestRecentEvents_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMarket := mocks.NewMockMarketplaceService(ctrl)
	h := NewDashboardHandler(mockMarket)

	mockMarket.EXPECT().RecentEvents(gomock.Any(), gomock.Any()).Return(nil, apperror.InternalError(errors.New("db down")))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxAddress, handlerTestSeller)

	h.RecentEvents(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Health Check Test ---

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
