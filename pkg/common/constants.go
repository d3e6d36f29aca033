package common

const (
	RedisStreamStockAnalyzer     = "stock.analyzer"
	RedisStreamContextEnrichment = "stock.context.enrichment"

	RedisStreamGroup    = "insight-group"
	RedisStreamConsumer = "insight-consumer"
)
