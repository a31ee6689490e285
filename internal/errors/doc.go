// Package apperrors defines the error taxonomy shared by the snapshot core,
// the transport and the command-line tools, together with the process exit
// codes each error class maps to.
package apperrors
