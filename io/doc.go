// Package io provides the external collaborators of the μVM system: the
// byte source and sink for binary instruction streams (Tape), the JSON trace
// and result encodings, and file helpers.
package io
