package api

import (
	"github.com/ezrec/uvm/cpu"
)

type AssembleResponse struct {
	Binary []byte       `json:"binary"`
	Trace  []cpu.Record `json:"trace"`
}

type ExecuteResponse struct {
	Result []uint32 `json:"result"`
}

type RunResponse struct {
	AssembleResponse
	ExecuteResponse
}

type ErrorResponse struct {
	Error  string `json:"error"`
	Line   int    `json:"line,omitempty"`
	Offset *int   `json:"offset,omitempty"`
}
