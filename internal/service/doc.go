// Package service contains the application services: credential handling
// and the authorization-aware task operations. Services own every access
// decision; stores below them are policy-free.
package service
