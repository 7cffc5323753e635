package indicator

import (
	"fmt"
	"sync"
)

// IndicatorRegistry manages all available indicators.
type IndicatorRegistry interface {
	RegisterIndicator(indicator Indicator) error
	GetIndicator(name IndicatorType) (Indicator, error)
	ListIndicators() []IndicatorType
	RemoveIndicator(name IndicatorType) error
}

// IndicatorRegistryV1 manages all available indicators.
type IndicatorRegistryV1 struct {
	indicators map[IndicatorType]Indicator
	mu         sync.RWMutex
}

// NewIndicatorRegistry creates a new indicator registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		indicators: make(map[IndicatorType]Indicator),
		mu:         sync.RWMutex{},
	}
}

// NewSessionRegistry registers the opening range, VWAP and ATR indicators with their windows.
func NewSessionRegistry(openingRangeMinutes, vwapWindow, atrPeriod int) (IndicatorRegistry, error) {
	registry := NewIndicatorRegistry()

	configured := []struct {
		indicator Indicator
		param     int
	}{
		{NewOpeningRange(), openingRangeMinutes},
		{NewVWAP(), vwapWindow},
		{NewATR(), atrPeriod},
	}

	for _, c := range configured {
		if err := c.indicator.Config(c.param); err != nil {
			return nil, fmt.Errorf("NewSessionRegistry: %s: %w", c.indicator.Name(), err)
		}

		if err := registry.RegisterIndicator(c.indicator); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// RegisterIndicator adds an indicator to the registry.
func (r *IndicatorRegistryV1) RegisterIndicator(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := indicator.Name()
	if _, exists := r.indicators[name]; exists {
		return fmt.Errorf("RegisterIndicator: indicator with name %s already registered", name)
	}

	r.indicators[name] = indicator

	return nil
}

// GetIndicator retrieves an indicator by name.
func (r *IndicatorRegistryV1) GetIndicator(name IndicatorType) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[name]
	if !exists {
		return nil, fmt.Errorf("GetIndicator: indicator with name %s not found", name)
	}

	return indicator, nil
}

// ListIndicators returns the registered names in no particular order.
func (r *IndicatorRegistryV1) ListIndicators() []IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]IndicatorType, 0, len(r.indicators))
	for name := range r.indicators {
		names = append(names, name)
	}

	return names
}

// RemoveIndicator removes an indicator from the registry.
func (r *IndicatorRegistryV1) RemoveIndicator(name IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[name]; !exists {
		return fmt.Errorf("RemoveIndicator: indicator with name %s not found", name)
	}

	delete(r.indicators, name)

	return nil
}
