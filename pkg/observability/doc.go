/*
Package observability provides tools for monitoring the orgtree engine.

It turns engine lifecycle hooks into Prometheus metrics and structured audit logs.
Hooks built here can be combined and passed to orgtree.WithLifecycleHooks or to the
session manager.
*/
package observability
