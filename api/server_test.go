package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/ezrec/uvm/cpu"
	"github.com/ezrec/uvm/emulator"
)

func request(server *Server, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(rec *httptest.ResponseRecorder, value any) {
	ExpectWithOffset(1, json.Unmarshal(rec.Body.Bytes(), value)).To(Succeed())
}

func assemble(source string) *cpu.Program {
	prog, err := (&cpu.Assembler{}).Parse(strings.NewReader(source))
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return prog
}

var _ = Describe("Server", func() {
	var (
		mockCtrl    *gomock.Controller
		mockMachine *MockMachine
		server      *Server
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockMachine = NewMockMachine(mockCtrl)

		var err error
		server, err = NewServer(ServerConfig{
			Logger: zap.NewNop(),
			Config: emulator.DefaultConfig(),
		}, mockMachine)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should report the configuration", func() {
		rec := request(server, http.MethodGet, "/config", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var config emulator.Config
		decode(rec, &config)
		Expect(config).To(Equal(emulator.DefaultConfig()))
	})

	It("should assemble", func() {
		prog := assemble("LOAD_CONST 0 5\nWRITE_MEM 0 0 0")
		mockMachine.EXPECT().Assemble(gomock.Any()).Return(prog, nil)

		rec := request(server, http.MethodPost, "/assemble", "LOAD_CONST 0 5\nWRITE_MEM 0 0 0")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp AssembleResponse
		decode(rec, &resp)
		Expect(resp.Binary).To(Equal([]byte{192, 0, 5, 0, 115, 0, 0, 0}))
		Expect(resp.Trace).To(Equal(prog.Trace()))
	})

	It("should report assembly errors with the line", func() {
		mockMachine.EXPECT().Assemble(gomock.Any()).
			Return(nil, &cpu.ErrSyntax{LineNo: 2, Line: "JUMP 1", Err: cpu.ErrMnemonic("JUMP")})

		rec := request(server, http.MethodPost, "/assemble", "LOAD_CONST 0 1\nJUMP 1")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		var resp ErrorResponse
		decode(rec, &resp)
		Expect(resp.Line).To(Equal(2))
		Expect(resp.Offset).To(BeNil())
		Expect(resp.Error).To(ContainSubstring("JUMP"))
	})

	It("should execute a binary", func() {
		binary := []byte{192, 1, 7, 0}
		mockMachine.EXPECT().Execute(binary).Return([]uint32{0, 0, 0, 0, 0, 0, 0, 7}, nil)

		rec := request(server, http.MethodPost, "/execute", string(binary))
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp ExecuteResponse
		decode(rec, &resp)
		Expect(resp.Result).To(Equal([]uint32{0, 0, 0, 0, 0, 0, 0, 7}))
	})

	It("should report runtime errors with the offset", func() {
		mockMachine.EXPECT().Execute(gomock.Any()).
			Return(nil, &emulator.ErrRuntime{Offset: 8, Err: cpu.ErrOpcode(1)})

		rec := request(server, http.MethodPost, "/execute", "\x01")
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))

		var resp ErrorResponse
		decode(rec, &resp)
		Expect(resp.Line).To(Equal(0))
		Expect(resp.Offset).NotTo(BeNil())
		Expect(*resp.Offset).To(Equal(8))
	})

	It("should report other errors as internal", func() {
		mockMachine.EXPECT().Execute(gomock.Any()).Return(nil, errors.New("broken"))

		rec := request(server, http.MethodPost, "/execute", "")
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))

		var resp ErrorResponse
		decode(rec, &resp)
		Expect(resp.Error).To(Equal("broken"))
	})

	It("should assemble and execute on run", func() {
		prog := assemble("LOAD_CONST 0 200\nLOAD_CONST 1 3\nWRITE_MEM 0 1 0")
		gomock.InOrder(
			mockMachine.EXPECT().Assemble(gomock.Any()).Return(prog, nil),
			mockMachine.EXPECT().Run(prog).Return([]uint32{3, 0, 0, 0, 0, 0, 0, 0}, nil),
		)

		rec := request(server, http.MethodPost, "/run", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp RunResponse
		decode(rec, &resp)
		Expect(resp.Binary).To(Equal(prog.Binary()))
		Expect(resp.Trace).To(HaveLen(3))
		Expect(resp.Result).To(Equal([]uint32{3, 0, 0, 0, 0, 0, 0, 0}))
	})

	It("should report the line of runtime errors on run", func() {
		prog := assemble("LOAD_CONST 0 1000\nLOAD_CONST 1 1\nWRITE_MEM 0 1 100")
		gomock.InOrder(
			mockMachine.EXPECT().Assemble(gomock.Any()).Return(prog, nil),
			mockMachine.EXPECT().Run(prog).
				Return(nil, &emulator.ErrRuntime{LineNo: 3, Offset: 8, Err: cpu.ErrOutOfRange}),
		)

		rec := request(server, http.MethodPost, "/run", "")
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))

		var resp ErrorResponse
		decode(rec, &resp)
		Expect(resp.Line).To(Equal(3))
		Expect(*resp.Offset).To(Equal(8))
	})

	It("should reject bodies over the limit", func() {
		line := "LOAD_CONST 9 1\n"
		body := strings.Repeat(line, (1<<20)/len(line)+1) + "LOAD_CONST 0 200\nLOAD_CONST 1 7\nWRITE_MEM 0 1 0"

		for _, path := range []string{"/assemble", "/execute", "/run"} {
			rec := request(server, http.MethodPost, path, body)
			Expect(rec.Code).To(Equal(http.StatusRequestEntityTooLarge), path)
		}
	})

	It("should reject streamed bodies over the limit", func() {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(strings.Repeat("\x00", 1<<20+1)))
		req.ContentLength = -1
		server.Handler().ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusRequestEntityTooLarge))
	})

	It("should not execute when assembly fails on run", func() {
		mockMachine.EXPECT().Assemble(gomock.Any()).
			Return(nil, &cpu.ErrSyntax{LineNo: 1, Err: cpu.ErrArity})

		rec := request(server, http.MethodPost, "/run", "LOAD_CONST 1")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})

var _ = Describe("Machine", func() {
	var server *Server

	BeforeEach(func() {
		var err error
		server, err = NewServer(ServerConfig{
			Logger: zap.NewNop(),
			Config: emulator.DefaultConfig(),
		}, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject an invalid configuration", func() {
		config := emulator.DefaultConfig()
		config.Window = emulator.Window{Start: 0, End: 2048}

		_, err := NewMachine(config, nil)
		Expect(err).To(MatchError(emulator.ErrConfig))

		_, err = NewServer(ServerConfig{Logger: zap.NewNop(), Config: config}, nil)
		Expect(err).To(MatchError(emulator.ErrConfig))
	})

	It("should run a program", func() {
		source := strings.Join([]string{
			"LOAD_CONST 0 $(WINDOW_START)",
			"LOAD_CONST 1 10",
			"WRITE_MEM 0 1 0",
			"BIN_OP_LE 0 1 0 0",
		}, "\n")

		rec := request(server, http.MethodPost, "/run", source)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp RunResponse
		decode(rec, &resp)
		Expect(resp.Binary).To(HaveLen(17))
		Expect(resp.Result).To(Equal([]uint32{1, 0, 0, 0, 0, 0, 0, 0}))
	})

	It("should report the failing line of a program", func() {
		rec := request(server, http.MethodPost, "/run", "LOAD_CONST 0 1000\nLOAD_CONST 1 1\nWRITE_MEM 0 1 100")
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))

		var resp ErrorResponse
		decode(rec, &resp)
		Expect(resp.Line).To(Equal(3))
		Expect(*resp.Offset).To(Equal(8))
	})

	It("should report only the offset of a failing binary", func() {
		binary := []byte{192, 0, 0xe8, 0x03, 115, 0, 0, 24}
		rec := request(server, http.MethodPost, "/execute", string(binary))
		Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))

		var resp ErrorResponse
		decode(rec, &resp)
		Expect(resp.Line).To(Equal(0))
		Expect(*resp.Offset).To(Equal(4))
	})

	It("should run every instruction of a large program", func() {
		line := "LOAD_CONST 9 1\n"
		body := strings.Repeat(line, 1000) + "LOAD_CONST 0 200\nLOAD_CONST 1 7\nWRITE_MEM 0 1 0"

		rec := request(server, http.MethodPost, "/run", body)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var resp RunResponse
		decode(rec, &resp)
		Expect(resp.Result).To(Equal([]uint32{7, 0, 0, 0, 0, 0, 0, 0}))
	})

	It("should report unknown mnemonics", func() {
		rec := request(server, http.MethodPost, "/assemble", "LOAD_CONST 0 1\n\nHALT")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		var resp ErrorResponse
		decode(rec, &resp)
		Expect(resp.Line).To(Equal(3))
	})
})
