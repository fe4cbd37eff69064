package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"finefoods-recommender/internal/store"
)

func userFromRecord(record *neo4j.Record) *store.User {
	return &store.User{
		NodeID:      getInt64FromRecord(record, "node_id"),
		UserID:      getStringFromRecord(record, "user_id"),
		ProfileName: getStringFromRecord(record, "profile_name"),
	}
}

func productFromRecord(record *neo4j.Record) *store.Product {
	return &store.Product{
		NodeID:    getInt64FromRecord(record, "node_id"),
		ProductID: getStringFromRecord(record, "product_id"),
	}
}

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}

func getMapFromRecord(record *neo4j.Record, key string) map[string]any {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	if m, ok := val.(map[string]any); ok {
		return m
	}
	return nil
}

func getFloat64FromRecord(record *neo4j.Record, key string) float64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0.0
	}
	if f, ok := val.(float64); ok {
		return f
	}
	if i, ok := val.(int64); ok {
		return float64(i)
	}
	return 0.0
}
