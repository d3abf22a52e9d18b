package gateway

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"shopassist/internal/catalog"
	"shopassist/internal/config"
	"shopassist/internal/policy"
	"shopassist/internal/provider"
)

// fakeChat scripts the conversational provider and counts calls.
type fakeChat struct {
	reply string
	err   error
	calls int
}

func (f *fakeChat) Converse(ctx context.Context, system string, history []provider.Turn, message string) (string, error) {
	f.calls++
	return f.reply, f.err
}

// fakeCompleter scripts the completion provider, counts calls and records the
// last prompt it was sent.
type fakeCompleter struct {
	reply        string
	err          error
	calls        int
	lastMessages []*schema.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []*schema.Message) (string, error) {
	f.calls++
	f.lastMessages = messages
	return f.reply, f.err
}

// newTestGateway builds a gateway whose credential state follows whether the
// fakes are non-nil.
func newTestGateway(chat provider.ConversationalModel, completer provider.CompletionModel) *Gateway {
	hasChat := chat != nil
	hasCompleter := completer != nil

	engine := policy.NewEngine(zerolog.Nop(), policy.Config{
		Timeouts: map[policy.Feature]time.Duration{
			policy.FeatureChat:      time.Second,
			policy.FeatureRecommend: time.Second,
			policy.FeatureSearch:    time.Second,
			policy.FeatureDescribe:  time.Second,
			policy.FeatureSentiment: time.Second,
		},
		Credentials: map[policy.Feature]bool{
			policy.FeatureChat:      hasChat,
			policy.FeatureDescribe:  hasChat,
			policy.FeatureRecommend: hasCompleter,
			policy.FeatureSearch:    hasCompleter,
			policy.FeatureSentiment: hasCompleter,
		},
	})

	settings := &config.Settings{}
	settings.ApplyDefaults()
	return New(zerolog.Nop(), engine, chat, completer, settings)
}

// testProducts is a ten-product catalog with distinct ratings and sales
// figures, including a rating tie (p7/p8) to exercise stable ordering.
func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "p1", Name: "Trail Runner Shoes", Category: "Footwear", Price: 120, Rating: 4.5, UnitsSold: 900, Description: "Lightweight running shoes"},
		{ID: "p2", Name: "Canvas Sneakers", Category: "Footwear", Price: 60, Rating: 4.0, UnitsSold: 2400, Description: "Everyday canvas sneakers"},
		{ID: "p3", Name: "Wool Hiking Socks", Category: "Footwear", Price: 15, Rating: 4.8, UnitsSold: 5100, Description: "Warm merino socks"},
		{ID: "p4", Name: "Insulated Water Bottle", Category: "Outdoor", Price: 35, Rating: 4.6, UnitsSold: 3300, Description: "Keeps drinks cold for 24 hours"},
		{ID: "p5", Name: "Camping Lantern", Category: "Outdoor", Price: 45, Rating: 4.2, UnitsSold: 800, Description: "Rechargeable LED lantern"},
		{ID: "p6", Name: "Yoga Mat", Category: "Fitness", Price: 40, Rating: 4.7, UnitsSold: 2900, Description: "Non-slip exercise mat"},
		{ID: "p7", Name: "Foam Roller", Category: "Fitness", Price: 25, Rating: 4.3, UnitsSold: 1500, Description: "High-density recovery roller"},
		{ID: "p8", Name: "Resistance Bands", Category: "Fitness", Price: 20, Rating: 4.3, UnitsSold: 1500, Description: "Set of five workout bands"},
		{ID: "p9", Name: "Trail Backpack", Category: "Outdoor", Price: 95, Rating: 4.4, UnitsSold: 1100, Description: "30L daypack with rain cover"},
		{ID: "p10", Name: "Running Cap", Category: "Footwear", Price: 22, Rating: 3.9, UnitsSold: 700, Description: "Breathable running cap"},
	}
}
