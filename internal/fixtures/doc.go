// Package fixtures holds the small immutable record sets that the demo
// commands and tests run pipelines over: a menu of dishes, an apple
// inventory and a ledger of trades.
package fixtures
