package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapPreservesChainAndCode(t *testing.T) {
	root := fmt.Errorf("connection refused")
	wrapped := Wrap(CodeDependency, root, "load component")

	require.Equal(t, CodeDependency, wrapped.Code())
	require.ErrorContains(t, wrapped, "load component")
	require.ErrorIs(t, wrapped, root)
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	typed := New(CodeInsufficientStock, "not enough parts")
	outer := fmt.Errorf("produce: %w", typed)

	found := As(outer)
	require.NotNil(t, found)
	require.Equal(t, CodeInsufficientStock, found.Code())

	require.Nil(t, As(fmt.Errorf("plain")))
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	require.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)

	stock := MetadataFor(CodeInsufficientStock)
	require.Equal(t, http.StatusConflict, stock.HTTPStatus)
	require.True(t, stock.DetailsAllowed)
}

func TestDumpCollectsChain(t *testing.T) {
	root := fmt.Errorf("boom")
	err := Wrap(CodeInternal, root, "outer")

	dump := Dump(err)
	require.Equal(t, CodeInternal, dump.Code)
	require.Len(t, dump.Chain, 2)
}
