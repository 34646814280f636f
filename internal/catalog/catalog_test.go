package catalog

import (
	"errors"
	"testing"

	"github.com/glanzwerk/invoicing/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromConfig_Defaults(t *testing.T) {
	snap, err := FromConfig(config.DefaultInvoiceConfig())
	require.NoError(t, err)

	def, err := snap.Services.Lookup("aussenreinigung")
	require.NoError(t, err)
	assert.Equal(t, "Außenreinigung per Hand", def.Name)
	assert.True(t, def.NetPrice.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 15, snap.Services.Len())

	services := snap.Services.Services()
	assert.Equal(t, "aussenreinigung", services[0].Key)
	assert.Equal(t, "abholservice", services[len(services)-1].Key)
}

func TestCatalog_LookupUnknown(t *testing.T) {
	c, err := New([]ServiceDefinition{{Key: "wash", Name: "Wash", NetPrice: decimal.NewFromInt(10)}})
	require.NoError(t, err)

	_, err = c.Lookup("polish")
	assert.True(t, errors.Is(err, ErrUnknownService))
}

func TestNew_RejectsBadDefinitions(t *testing.T) {
	_, err := New([]ServiceDefinition{{Key: "", Name: "x"}})
	assert.ErrorIs(t, err, ErrInvalidService)

	_, err = New([]ServiceDefinition{{Key: "a", Name: "A", NetPrice: decimal.NewFromInt(-1)}})
	assert.ErrorIs(t, err, ErrInvalidService)

	_, err = New([]ServiceDefinition{
		{Key: "a", Name: "A"},
		{Key: "a", Name: "B"},
	})
	assert.ErrorIs(t, err, ErrDuplicateService)
}

func TestDiscountCodes_CaseInsensitive(t *testing.T) {
	codes, err := NewDiscountCodes(map[string]decimal.Decimal{"neukunde": decimal.NewFromInt(15)})
	require.NoError(t, err)

	pct, ok := codes.Lookup("NeuKunde ")
	require.True(t, ok)
	assert.True(t, pct.Equal(decimal.NewFromInt(15)))

	_, ok = codes.Lookup("")
	assert.False(t, ok)
	_, ok = codes.Lookup("WINTER")
	assert.False(t, ok)
}

func TestNewDiscountCodes_RejectsOutOfRange(t *testing.T) {
	_, err := NewDiscountCodes(map[string]decimal.Decimal{"ZERO": decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidPercentage)

	_, err = NewDiscountCodes(map[string]decimal.Decimal{"MAX": decimal.NewFromInt(101)})
	assert.ErrorIs(t, err, ErrInvalidPercentage)

	_, err = NewDiscountCodes(map[string]decimal.Decimal{"FULL": decimal.NewFromInt(100)})
	assert.NoError(t, err)
}

func TestStore_Replace(t *testing.T) {
	first, err := FromConfig(config.DefaultInvoiceConfig())
	require.NoError(t, err)
	store := NewStore(first)

	cfg := config.DefaultInvoiceConfig()
	cfg.Services = cfg.Services[:2]
	second, err := FromConfig(cfg)
	require.NoError(t, err)

	held := store.Current()
	store.Replace(second)

	assert.Equal(t, 15, held.Services.Len())
	assert.Equal(t, 2, store.Current().Services.Len())
}

func TestNewStoreFromConfig_FollowsReloads(t *testing.T) {
	holder, err := config.NewStaticInvoiceConfigHolder(config.DefaultInvoiceConfig())
	require.NoError(t, err)

	store, err := NewStoreFromConfig(holder, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 15, store.Current().Services.Len())
}
