package fixture

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderHaltProducesOneWord(t *testing.T) {
	b := NewBuilder().Halt()
	bytes := b.Bytes()
	require.Len(t, bytes, 4)

	word := binary.BigEndian.Uint32(bytes)
	assert.Equal(t, uint32(opHalt)<<28, word)
}

func TestBuilderLoadValueEncodesRegisterAndImmediate(t *testing.T) {
	b := NewBuilder().LoadValue(R3, 1000)
	word := binary.BigEndian.Uint32(b.Bytes())

	assert.Equal(t, uint32(opLoadValue), word>>28)
	assert.Equal(t, uint32(R3), (word>>25)&0x7)
	assert.Equal(t, uint32(1000), word&0x1FFFFFF)
}

func TestBuilderLoadValueTruncatesToTwentyFiveBits(t *testing.T) {
	b := NewBuilder().LoadValue(R0, 0xFFFFFFFF)
	word := binary.BigEndian.Uint32(b.Bytes())
	assert.Equal(t, uint32(0x1FFFFFF), word&0x1FFFFFF)
}

func TestBuilderChainsMultipleInstructions(t *testing.T) {
	b := NewBuilder().
		LoadValue(R0, 'h').
		Output(R0).
		Halt()

	assert.Len(t, b.Bytes(), 12)
}

func TestBuilderThreeRegisterFieldOrder(t *testing.T) {
	word := threeRegister(opAdd, R1, R2, R3)
	assert.Equal(t, uint32(opAdd), word>>28)
	assert.Equal(t, uint32(R1), (word>>6)&0x7)
	assert.Equal(t, uint32(R2), (word>>3)&0x7)
	assert.Equal(t, uint32(R3), word&0x7)
}

func TestWriteFixtureWritesImageAndSidecarFiles(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder().LoadValue(R0, 'x').Output(R0).Halt()

	require.NoError(t, WriteFixture(dir, "echo.um", b, "input-text", "expected-text"))

	image, err := os.ReadFile(filepath.Join(dir, "echo.um"))
	require.NoError(t, err)
	assert.Equal(t, b.Bytes(), image)

	stdin, err := os.ReadFile(filepath.Join(dir, "echo.um.0"))
	require.NoError(t, err)
	assert.Equal(t, "input-text", string(stdin))

	stdout, err := os.ReadFile(filepath.Join(dir, "echo.um.1"))
	require.NoError(t, err)
	assert.Equal(t, "expected-text", string(stdout))
}

func TestWriteFixtureOmitsEmptySidecarFiles(t *testing.T) {
	dir := t.TempDir()
	b := NewBuilder().Halt()

	require.NoError(t, WriteFixture(dir, "halt.um", b, "", ""))

	_, err := os.Stat(filepath.Join(dir, "halt.um.0"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "halt.um.1"))
	assert.True(t, os.IsNotExist(err))
}
