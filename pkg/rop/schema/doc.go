// Package schema adapts OpenAPI 3 schema objects (kin-openapi) to the
// pipeline Schema contract: Parse either returns the decoded value or a
// *rop.ViolationError listing every violated constraint in the order the
// validator reported them.
package schema
