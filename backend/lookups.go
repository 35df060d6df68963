package backend

import (
	"context"

	"fund-admin-gateway/models"
)

// GetYears loads the fiscal year lookup.
func (c *Client) GetYears(ctx context.Context) ([]models.Year, error) {
	var decoded struct {
		Years []models.Year `json:"years"`
		Data  []models.Year `json:"data"`
	}
	if err := c.getJSON(ctx, "/years", nil, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Years) > 0 {
		return decoded.Years, nil
	}
	return decoded.Data, nil
}

// GetCategories loads the fund category lookup.
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	var decoded struct {
		Categories []models.Category `json:"categories"`
		Data       []models.Category `json:"data"`
	}
	if err := c.getJSON(ctx, "/categories", nil, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Categories) > 0 {
		return decoded.Categories, nil
	}
	return decoded.Data, nil
}

// GetSubcategories loads the fund subcategory lookup.
func (c *Client) GetSubcategories(ctx context.Context) ([]models.Subcategory, error) {
	var decoded struct {
		Subcategories []models.Subcategory `json:"subcategories"`
		Data          []models.Subcategory `json:"data"`
	}
	if err := c.getJSON(ctx, "/subcategories", nil, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Subcategories) > 0 {
		return decoded.Subcategories, nil
	}
	return decoded.Data, nil
}

// Health pings the upstream health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.getJSON(ctx, "/health", nil, nil)
}
