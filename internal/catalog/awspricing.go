package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
)

// priceRecord is one cached AWS Price List API lookup, keyed by a
// service/region/product string built by PriceClient's callers.
type priceRecord struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

// PriceClient supplements the CSV catalog with live S3 storage/request/
// transfer prices pulled from the AWS Price List API, caching results to a
// JSON file so repeated precompute runs don't re-query AWS for prices that
// rarely change within a TTL window.
type PriceClient struct {
	logger    *slog.Logger
	svc       *pricing.Client
	cache     map[string]priceRecord
	mu        sync.RWMutex
	cachePath string
	ttl       time.Duration
}

// NewPriceClient builds a PriceClient against the AWS Pricing API, which is
// only ever served from us-east-1 regardless of which region is priced.
func NewPriceClient(ctx context.Context, logger *slog.Logger, cacheDir string) (*PriceClient, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cacheDir == "" {
		cacheDir = os.TempDir()
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("catalog: creating price cache dir: %w", err)
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-1"))
	if err != nil {
		return nil, fmt.Errorf("catalog: loading AWS config: %w", err)
	}

	c := &PriceClient{
		logger:    logger,
		svc:       pricing.NewFromConfig(cfg),
		cache:     make(map[string]priceRecord),
		cachePath: filepath.Join(cacheDir, "s3-pricing.json"),
		ttl:       15 * 24 * time.Hour,
	}
	c.loadCache()
	return c, nil
}

func (c *PriceClient) loadCache() {
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, &c.cache); err != nil {
		c.logger.Warn("discarding unreadable price cache", "path", c.cachePath, "err", err)
	}
}

func (c *PriceClient) saveCache() {
	data, err := json.MarshalIndent(c.cache, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(c.cachePath, data, 0o644); err != nil {
		c.logger.Warn("failed to persist price cache", "path", c.cachePath, "err", err)
	}
}

func (c *PriceClient) cached(key string) (float64, bool) {
	c.mu.RLock()
	rec, ok := c.cache[key]
	c.mu.RUnlock()
	if !ok || time.Since(time.Unix(rec.Timestamp, 0)) >= c.ttl {
		return 0, false
	}
	return rec.Price, true
}

func (c *PriceClient) remember(key string, price float64) {
	c.mu.Lock()
	c.cache[key] = priceRecord{Price: price, Timestamp: time.Now().Unix()}
	c.saveCache()
	c.mu.Unlock()
}

// StoragePrice returns the $/GB-month price for an S3 storage class in
// region, e.g. storageClass "Standard" or "Glacier Instant Retrieval".
func (c *PriceClient) StoragePrice(ctx context.Context, region, storageClass string) (float64, error) {
	key := fmt.Sprintf("storage-%s-%s", region, storageClass)
	if p, ok := c.cached(key); ok {
		return p, nil
	}
	price, err := c.fetchProductPrice(ctx, "AmazonS3", []types.Filter{
		termFilter("productFamily", "Storage"),
		termFilter("serviceCode", "AmazonS3"),
		termFilter("regionCode", region),
		termFilter("storageClass", storageClass),
	})
	if err != nil {
		return 0, err
	}
	c.remember(key, price)
	return price, nil
}

// RequestPrice returns the $/1000-requests price for an S3 request group,
// e.g. requestGroup "Tier1" (PUT/COPY/POST/LIST) or "Tier2" (GET/SELECT).
func (c *PriceClient) RequestPrice(ctx context.Context, region, requestGroup string) (float64, error) {
	key := fmt.Sprintf("request-%s-%s", region, requestGroup)
	if p, ok := c.cached(key); ok {
		return p, nil
	}
	price, err := c.fetchProductPrice(ctx, "AmazonS3", []types.Filter{
		termFilter("productFamily", "API Request"),
		termFilter("serviceCode", "AmazonS3"),
		termFilter("regionCode", region),
		termFilter("group", requestGroup),
	})
	if err != nil {
		return 0, err
	}
	c.remember(key, price)
	return price, nil
}

// TransferPrice returns the $/GB price for data transfer out of region to
// the public internet. Nothing in this repository calls it; inter-region
// network prices come only from the network CSV.
func (c *PriceClient) TransferPrice(ctx context.Context, region string) (float64, error) {
	key := fmt.Sprintf("transfer-%s", region)
	if p, ok := c.cached(key); ok {
		return p, nil
	}
	price, err := c.fetchProductPrice(ctx, "AWSDataTransfer", []types.Filter{
		termFilter("productFamily", "Data Transfer"),
		termFilter("serviceCode", "AWSDataTransfer"),
		termFilter("fromRegionCode", region),
		termFilter("transferType", "AWS Outbound"),
	})
	if err != nil {
		return 0, err
	}
	c.remember(key, price)
	return price, nil
}

func termFilter(field, value string) types.Filter {
	return types.Filter{Type: types.FilterTypeTermMatch, Field: aws.String(field), Value: aws.String(value)}
}

func (c *PriceClient) fetchProductPrice(ctx context.Context, serviceCode string, filters []types.Filter) (float64, error) {
	out, err := c.svc.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: aws.String(serviceCode),
		Filters:     filters,
		MaxResults:  aws.Int32(1),
	})
	if err != nil {
		return 0, fmt.Errorf("catalog: GetProducts: %w", err)
	}
	if len(out.PriceList) == 0 {
		return 0, fmt.Errorf("catalog: no AWS price list entry matched filters")
	}
	return parseOnDemandUSD(out.PriceList[0])
}

func parseOnDemandUSD(jsonStr string) (float64, error) {
	type priceDimension struct {
		PricePerUnit map[string]string `json:"pricePerUnit"`
	}
	type term struct {
		PriceDimensions map[string]priceDimension `json:"priceDimensions"`
	}
	type product struct {
		Terms map[string]map[string]term `json:"terms"`
	}

	var p product
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		return 0, fmt.Errorf("catalog: parsing price list entry: %w", err)
	}
	onDemand, ok := p.Terms["OnDemand"]
	if !ok {
		return 0, fmt.Errorf("catalog: price list entry has no OnDemand term")
	}
	for _, t := range onDemand {
		for _, dim := range t.PriceDimensions {
			if v, ok := dim.PricePerUnit["USD"]; ok {
				val, err := strconv.ParseFloat(v, 64)
				if err == nil {
					return val, nil
				}
			}
		}
	}
	return 0, fmt.Errorf("catalog: no USD price dimension in price list entry")
}
