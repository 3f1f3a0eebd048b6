// Copyright © 2026 The periphctl Authors.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wm8731

// Address is the 7-bit I2C address of the codec, selected by the CSB pin.
type Address uint16

// Addresses.
const (
	AddressCSBLow  Address = 0x1a // 0011010
	AddressCSBHigh Address = 0x1b // 0011011
)

// Register is the 7-bit address of a control register.
type Register uint8

// Registers.
const (
	RegLeftLineIn        Register = 0x00
	RegRightLineIn       Register = 0x01
	RegLeftHeadphoneOut  Register = 0x02
	RegRightHeadphoneOut Register = 0x03
	RegAnalogPath        Register = 0x04
	RegDigitalPath       Register = 0x05
	RegPowerDown         Register = 0x06
	RegInterface         Register = 0x07
	RegSampling          Register = 0x08
	RegActive            Register = 0x09
	RegReset             Register = 0x0f // writing 0 resets the device

	// NumRegisters is the number of registers held in the shadow, 0 to 9.
	NumRegisters = 10
)

// ValueMask covers the 9 bits of a register value.
const ValueMask = 0x1ff

// Line input fields (RegLeftLineIn, RegRightLineIn).
const (
	LineInVolumeMask uint16 = 0x01f // volume, 0..31
	LineInMute       uint16 = 0x080 // mute to ADC
	LineInBoth       uint16 = 0x100 // load both channels
)

// Headphone output fields (RegLeftHeadphoneOut, RegRightHeadphoneOut).
const (
	HeadphoneVolumeMask uint16 = 0x03f // volume, 0..63
	HeadphoneZeroCross  uint16 = 0x080 // zero cross detect
	HeadphoneBoth       uint16 = 0x100 // load both channels
)

// AnalogPath holds the bits of RegAnalogPath.
type AnalogPath uint16

// Analogue audio path fields.
const (
	AnalogMicBoost AnalogPath = 0x01 // mic input level boost
	AnalogMuteMic  AnalogPath = 0x02 // mic input mute to ADC
	AnalogInSel    AnalogPath = 0x04 // mic (not line) input to ADC
	AnalogBypass   AnalogPath = 0x08 // line inputs summed to line out
	AnalogDACSel   AnalogPath = 0x10 // DAC output to line out
	AnalogSideTone AnalogPath = 0x20 // mic inputs summed to line out

	sideAttMask uint16 = 0x0c0
)

// Digital audio path fields (RegDigitalPath).
const (
	DigitalADCHPD uint16 = 0x01 // ADC high pass filter disable
	DigitalDACMU  uint16 = 0x08 // DAC soft mute
	DigitalHPOR   uint16 = 0x10 // store DC offset when high pass filter disabled

	deemphMask uint16 = 0x06
)

// Deemphasis selects the DAC de-emphasis filter.
type Deemphasis uint8

// Deemphasis filters.
const (
	DeemphasisOff Deemphasis = iota
	Deemphasis32k
	Deemphasis44k1
	Deemphasis48k
)

// Format is the digital audio interface format.
type Format uint8

// Formats.
const (
	FormatRightJustified Format = iota // MSB first, right justified
	FormatLeftJustified                // MSB first, left justified
	FormatI2S
	FormatDSP
)

// Digital audio interface fields (RegInterface).
const (
	InterfaceLRP     uint16 = 0x10 // DACLRC phase control
	InterfaceLRSwap  uint16 = 0x20 // DAC left right clock swap
	InterfaceMaster  uint16 = 0x40 // master mode
	InterfaceBCLKInv uint16 = 0x80 // bit clock invert
)

// Sampling control fields (RegSampling).
const (
	SamplingUSBMode  uint16 = 0x01 // USB mode select
	SamplingBOSR     uint16 = 0x02 // base oversampling rate
	SamplingCLKIDiv2 uint16 = 0x20 // core clock is MCLK/2
	SamplingCLKODiv2 uint16 = 0x40 // CLKOUT is MCLK/2
)

// ActiveControl activates the digital audio interface (RegActive).
const ActiveControl uint16 = 0x01

// LineInVolume encodes a line input volume, 0 to 31.
func LineInVolume(v uint8) uint16 {
	return uint16(v) & LineInVolumeMask
}

// HeadphoneVolume encodes a headphone output volume, 0 to 63.
func HeadphoneVolume(v uint8) uint16 {
	return uint16(v) & HeadphoneVolumeMask
}

// SideAttenuation encodes the sidetone attenuation into the analogue path:
// 0=-6dB, 1=-9dB, 2=-12dB, 3=-15dB.
func SideAttenuation(n uint8) AnalogPath {
	return AnalogPath(uint16(n&0x03) << 6)
}

// DeemphasisField encodes the de-emphasis filter into the digital path.
func DeemphasisField(d Deemphasis) uint16 {
	return uint16(d&0x03) << 1
}

// InterfaceFormat encodes the format into the interface register.
func InterfaceFormat(f Format) uint16 {
	return uint16(f & 0x03)
}

// WordLengthField encodes a word length code (0..3) into the interface
// register.
func WordLengthField(code uint8) uint16 {
	return uint16(code&0x03) << 2
}

// SampleRateField encodes a sample rate code (0..15) into the sampling
// register.
func SampleRateField(code uint8) uint16 {
	return uint16(code&0x0f) << 2
}

// WordLengthCode returns the interface code for a word length in bits.
// 16, 20, 24 and 32 map to 0..3. Anything else maps to 0.
func WordLengthCode(bits uint8) uint8 {
	switch bits {
	case 20:
		return 1
	case 24:
		return 2
	case 32:
		return 3
	default:
		return 0
	}
}

// SampleRateCode returns the sample rate code for a rate in Hz, for a 12.288MHz
// MCLK in normal mode. Rates other than 8000, 32000 and 96000 map to 0, the
// code for 48000.
func SampleRateCode(hz uint32) uint8 {
	switch hz {
	case 8000:
		return 3
	case 32000:
		return 6
	case 96000:
		return 7
	default:
		return 0
	}
}

// Encode returns the two bytes sent to the codec to write value to reg.
//
// The register address occupies the top 7 bits and the 9-bit value the rest.
func Encode(reg Register, value uint16) [2]byte {
	return [2]byte{
		byte(reg)<<1 | byte(value>>8&0x01),
		byte(value),
	}
}

// Decode splits the two bytes of a register write into its fields.
func Decode(b [2]byte) (Register, uint16) {
	return Register(b[0] >> 1), uint16(b[0]&0x01)<<8 | uint16(b[1])
}
