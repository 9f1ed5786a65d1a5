// Minerva is a governance runtime for autonomous agent actions.
//
// It gates proposed actions behind an Observe-Decide-Act-Log cycle:
// inputs are screened for prompt injection, classified into structured
// action proposals, evaluated against declarative YAML policies, executed
// only on approval, and recorded to an append-only audit trail.
//
// Usage:
//
//	# Start the HTTP governance server
//	minerva serve
//
//	# Run a single governed cycle from the command line
//	minerva cycle "deploy the new web service to production"
//
//	# List and validate policies
//	minerva policy list
//	minerva policy validate
//
//	# Render an audit report from recorded partitions
//	minerva report --audit-dir audit_logs
//
//	# Show version information
//	minerva version
package main

func main() {
	Execute()
}
