package amap

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RawPOI is a place record exactly as AMap (or a cached copy of a normalized record) sends it.
type RawPOI struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     FlexString  `json:"type"`
	Address  FlexString  `json:"address"`
	Location RawLocation `json:"location"`
	Tel      FlexString  `json:"tel"`
	Rating   FlexString  `json:"rating"`
	Cost     FlexString  `json:"cost"`
	BizExt   *BizExt     `json:"biz_ext,omitempty"`
}

// BizExt holds the business extension block returned with extensions=all.
type BizExt struct {
	Rating FlexString `json:"rating"`
	Cost   FlexString `json:"cost"`
}

type placeTextResponse struct {
	Count FlexString `json:"count"`
	POIs  []RawPOI   `json:"pois"`
}

// SearchPOI runs a keyword place search. An empty result is not an error.
func (c *Client) SearchPOI(ctx context.Context, keywords, city string, cityLimit bool) ([]RawPOI, error) {
	ctx, span := otel.Tracer("AMapClient").Start(ctx, "SearchPOI", trace.WithAttributes(
		attribute.String("keywords", keywords),
		attribute.String("city", city),
	))
	defer span.End()

	params := url.Values{}
	params.Set("keywords", keywords)
	params.Set("city", city)
	params.Set("citylimit", strconv.FormatBool(cityLimit))
	params.Set("offset", strconv.Itoa(c.pageSize))
	params.Set("page", "1")
	params.Set("extensions", "all")

	var resp placeTextResponse
	if err := c.get(ctx, "/v3/place/text", params, &resp); err != nil {
		c.logger.WarnContext(ctx, "POI search failed",
			slog.String("keywords", keywords),
			slog.String("city", city),
			slog.Any("error", err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("pois.count", len(resp.POIs)))
	if resp.POIs == nil {
		return []RawPOI{}, nil
	}
	return resp.POIs, nil
}
