package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/datasource MarketData,OptionsData,EconCalendar
//go:generate mockgen -destination=./mock_regime_scorer.go -package=mocks github.com/rxtech-lab/odte-backtest/internal/regime RegimeScorer
//go:generate mockgen -destination=./mock_spread_builder.go -package=mocks github.com/rxtech-lab/odte-backtest/internal/spread SpreadBuilder
//go:generate mockgen -destination=./mock_risk_manager.go -package=mocks github.com/rxtech-lab/odte-backtest/internal/risk RiskManager
//go:generate mockgen -destination=./mock_execution_engine.go -package=mocks github.com/rxtech-lab/odte-backtest/internal/backtest/engine/engine_v1/execution ExecutionEngine
