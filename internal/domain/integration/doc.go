// Package integration contains the Integration bounded context.
// This context manages the third-party services a seller connects: marketplaces,
// the payment gateway, the messaging channel and the AI response provider.
//
// Key concepts:
//   - MarketplaceAdapter: Port interface for pulling orders from a marketplace and pushing tracking data back
//   - NormalizedOrder: Value object holding the provider-independent view of an order
//   - ConfigStatus: Credential completeness report shared by every provider adapter
//   - IntegrationError: Failure taxonomy (configuration, transport, provider logic, not implemented)
//   - OrderRepository: Port for persisting normalized order snapshots during sync
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
