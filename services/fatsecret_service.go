package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultTokenURL = "https://oauth.fatsecret.com/connect/token"
	defaultAPIURL   = "https://platform.fatsecret.com/rest/server.api"
)

// FoodServing carries the nutrient columns FatSecret reports for one
// serving. All values arrive as strings on the wire.
type FoodServing struct {
	Calories     string `json:"calories"`
	Protein      string `json:"protein"`
	Carbohydrate string `json:"carbohydrate"`
	Fat          string `json:"fat"`
	Fiber        string `json:"fiber"`
	Sugar        string `json:"sugar"`
	Sodium       string `json:"sodium"`
	Cholesterol  string `json:"cholesterol"`
	VitaminA     string `json:"vitamin_a"`
	VitaminC     string `json:"vitamin_c"`
	Calcium      string `json:"calcium"`
	Iron         string `json:"iron"`
	Potassium    string `json:"potassium"`
}

type FoodDetail struct {
	FoodName string
	Servings []FoodServing
}

// NutritionProvider is what the pipeline needs from the nutrition database.
type NutritionProvider interface {
	Authenticate(ctx context.Context) (string, error)
	SearchFood(ctx context.Context, token, name string) (string, error)
	GetFoodDetail(ctx context.Context, token, foodID string) (*FoodDetail, error)
}

// FatSecretService queries the FatSecret platform API.
type FatSecretService struct {
	clientID     string
	clientSecret string
	tokenURL     string
	apiURL       string
	client       *http.Client
}

// NewFatSecretService initializes the FatSecretService with credentials and
// HTTP client.
func NewFatSecretService() *FatSecretService {
	tokenURL := os.Getenv("FATSECRET_TOKEN_URL")
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	apiURL := os.Getenv("FATSECRET_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &FatSecretService{
		clientID:     os.Getenv("FATSECRET_CLIENT_ID"),
		clientSecret: os.Getenv("FATSECRET_CLIENT_SECRET"),
		tokenURL:     tokenURL,
		apiURL:       apiURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// Authenticate performs a client-credentials exchange. Tokens are short
// lived and never cached; every pipeline run gets a fresh one.
func (s *FatSecretService) Authenticate(ctx context.Context) (string, error) {
	conf := &clientcredentials.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		TokenURL:     s.tokenURL,
		Scopes:       []string{"basic"},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	tok, err := conf.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to obtain FatSecret token: %w", err)
	}
	return tok.AccessToken, nil
}

// FatSecret collapses single-element lists to a bare object, so list fields
// need to accept both shapes.

type searchFood struct {
	FoodID   string `json:"food_id"`
	FoodName string `json:"food_name"`
}

type searchFoodList []searchFood

func (l *searchFoodList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		var many []searchFood
		if err := json.Unmarshal(b, &many); err != nil {
			return err
		}
		*l = many
		return nil
	}
	var one searchFood
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*l = searchFoodList{one}
	return nil
}

type servingList []FoodServing

func (l *servingList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '[' {
		var many []FoodServing
		if err := json.Unmarshal(b, &many); err != nil {
			return err
		}
		*l = many
		return nil
	}
	var one FoodServing
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*l = servingList{one}
	return nil
}

type searchResponse struct {
	Foods struct {
		Food searchFoodList `json:"food"`
	} `json:"foods"`
}

type detailResponse struct {
	Food struct {
		FoodName string `json:"food_name"`
		Servings struct {
			Serving servingList `json:"serving"`
		} `json:"servings"`
	} `json:"food"`
}

// SearchFood looks the label up by free text and returns the id of the
// first hit in the provider's ordering.
func (s *FatSecretService) SearchFood(ctx context.Context, token, name string) (string, error) {
	q := url.Values{}
	q.Set("method", "foods.search")
	q.Set("search_expression", name)
	q.Set("format", "json")

	body, err := s.get(ctx, token, q)
	if err != nil {
		return "", err
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("failed to parse foods.search JSON: %w", err)
	}
	if len(sr.Foods.Food) == 0 {
		return "", ErrFoodNotFound
	}
	return sr.Foods.Food[0].FoodID, nil
}

// GetFoodDetail fetches the full nutrient breakdown for one food id.
func (s *FatSecretService) GetFoodDetail(ctx context.Context, token, foodID string) (*FoodDetail, error) {
	q := url.Values{}
	q.Set("method", "food.get.v2")
	q.Set("food_id", foodID)
	q.Set("format", "json")

	body, err := s.get(ctx, token, q)
	if err != nil {
		return nil, err
	}

	var dr detailResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return nil, fmt.Errorf("failed to parse food.get JSON: %w", err)
	}
	if len(dr.Food.Servings.Serving) == 0 {
		return nil, ErrNoServing
	}
	return &FoodDetail{
		FoodName: dr.Food.FoodName,
		Servings: dr.Food.Servings.Serving,
	}, nil
}

func (s *FatSecretService) get(ctx context.Context, token string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create FatSecret request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call FatSecret API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read FatSecret response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
