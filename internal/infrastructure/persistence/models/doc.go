// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain types to keep the domain layer free of ORM concerns.
//
// Repositories convert between domain types and models with the ToDomain and
// From* functions defined next to each model.
package models
