package codegen

// Fixed labels for the runtime's diagnostic messages and scratch
// buffers, shared between data.go (which emits their storage) and
// text.go (which references them).
const (
	msgDispatchVoid = "_msg_dispatch_void"
	msgCaseVoid     = "_msg_case_void"
	msgCaseNoMatch  = "_msg_case_no_match"
	msgDivZero      = "_msg_div_zero"
	msgSubstrRange  = "_msg_substr_range"
	msgAbortPrefix  = "_msg_abort_prefix"
	msgNewline      = "_msg_newline"

	inputBuf   = "_in_buf"
	scratchBuf = "_scratch_buf"
)

// Runtime helper labels, defined in text.go and referenced from
// function.go's and case.go's emitted instructions.
const (
	rtObjectCopy        = "_Object_copy"
	rtEqualityTest      = "_equality_test"
	rtValueEq           = "_value_eq"
	rtPrintMsgAndExit   = "_print_msg_and_exit"
	rtAbortDispatchVoid = "_abort_dispatch_void"
	rtAbortDivZero      = "_abort_div_zero"
	rtAbortCaseVoid     = "_abort_case_void"
	rtAbortCaseNoMatch  = "_abort_case_no_match"
	rtAbortSubstrRange  = "_abort_substr_range"
	rtAlloc             = "_alloc"
	rtMakeString        = "_make_string"
)
