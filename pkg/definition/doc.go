// Package definition describes lazily edited forms: which model paths each
// field stages edits for, how fields are grouped for submission and which
// validation rules gate a submit.
//
// Definitions load from YAML documents (FromYAML) or from the request body of
// an OpenAPI operation (FromOpenAPI). LoadModel decodes the model document a
// definition edits.
package definition
