package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msalhab/deedbridge/internal/deeds"
)

func okResult(deed, payload string) deeds.Result {
	return deeds.Result{DeedNumber: deed, Success: true, Data: json.RawMessage(payload)}
}

func failResult(deed, msg string) deeds.Result {
	return deeds.Result{DeedNumber: deed, Err: msg}
}

func TestFormatLookupReplyPartialFailure(t *testing.T) {
	results := []deeds.Result{
		okResult("111", `{"deedNumber":"111"}`),
		failResult("222", "deed not found (HTTP 404)"),
		okResult("333", `{"deedNumber":"333"}`),
	}

	reply := FormatLookupReply("req-1", results, "authenticated")

	require.True(t, reply.Success)
	require.Nil(t, reply.Error)
	require.Len(t, reply.Result, 2)
	require.Equal(t, 3, reply.Metadata.TotalRequested)
	require.Equal(t, 2, reply.Metadata.TotalSuccessful)
	require.Equal(t, 1, reply.Metadata.TotalFailed)
	require.Equal(t, "222", reply.Metadata.Failures[0].RecordID)
	require.Equal(t, "deed not found (HTTP 404)", reply.Metadata.Failures[0].Error)
	require.Equal(t, "authenticated", reply.AuthStatus)
	require.Equal(t, TagLookupResult, reply.Type)
}

func TestFormatLookupReplySingleTotalFailure(t *testing.T) {
	reply := FormatLookupReply("req-1", []deeds.Result{failResult("111", "registry internal error (HTTP 500)")}, "authenticated")

	require.False(t, reply.Success)
	require.Empty(t, reply.Result)
	require.NotNil(t, reply.Error)
	require.Equal(t, "registry internal error (HTTP 500)", *reply.Error)
}

func TestFormatLookupReplyAggregateTotalFailure(t *testing.T) {
	results := []deeds.Result{
		failResult("111", "first error"),
		failResult("222", "second error"),
	}

	reply := FormatLookupReply("req-1", results, "authenticated")

	require.False(t, reply.Success)
	require.NotNil(t, reply.Error)
	require.Equal(t, "2 lookups failed (first: first error)", *reply.Error)
	require.Equal(t, 2, reply.Metadata.TotalFailed)
}

func TestFormatLookupReplyInvariants(t *testing.T) {
	results := []deeds.Result{
		okResult("1", `{"a":1}`),
		failResult("2", "x"),
		okResult("3", `{"a":3}`),
		failResult("4", "y"),
	}

	reply := FormatLookupReply("req-1", results, "authenticated")
	require.Equal(t, reply.Success, reply.Metadata.TotalSuccessful > 0)
	require.Len(t, reply.Result, reply.Metadata.TotalSuccessful)
	require.Equal(t, reply.Metadata.TotalRequested, reply.Metadata.TotalSuccessful+reply.Metadata.TotalFailed)
}

func TestFormatResultMatchesLiveReplyPayloads(t *testing.T) {
	results := []deeds.Result{
		okResult("111", `{"deedNumber":"111"}`),
		failResult("222", "gone"),
		okResult("333", `{"deedNumber":"333"}`),
	}

	artifact := FormatResult(results)
	reply := FormatLookupReply("req-1", results, "authenticated")

	// exported artifacts and live replies must carry identical payloads
	require.Equal(t, reply.Result, artifact.Result)

	exported, err := json.Marshal(artifact)
	require.NoError(t, err)
	require.JSONEq(t, `{"result":[{"deedNumber":"111"},{"deedNumber":"333"}]}`, string(exported))
}

func TestFormatLookupError(t *testing.T) {
	reply := FormatLookupError("req-1", "domain_not_approved", AuthStatusUnknown)

	require.False(t, reply.Success)
	require.NotNil(t, reply.Error)
	require.Equal(t, "domain_not_approved", *reply.Error)
	require.NotNil(t, reply.Result)
	require.Empty(t, reply.Result)
	require.Equal(t, AuthStatusUnknown, reply.AuthStatus)
	require.Zero(t, reply.Metadata.TotalRequested)
}

func TestLookupReplyWireShape(t *testing.T) {
	reply := FormatLookupReply("req-1", []deeds.Result{okResult("111", `{"x":1}`)}, "authenticated")

	b, err := json.Marshal(reply)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, "deedbridge_lookup_result", decoded["type"])
	require.Equal(t, "req-1", decoded["requestId"])
	require.Contains(t, decoded, "result")
	require.Contains(t, decoded, "error")
	require.Nil(t, decoded["error"])
	require.Contains(t, decoded, "metadata")
}
