package protocol

// CRC16-CCITT, polynomial 0x1021, seed 0xFFFF, no final XOR (the "false"
// variant). Table-less bit-wise form so the parser can fold bytes into a
// running accumulator as they arrive.

const (
	crc16Poly = 0x1021
	crc16Seed = 0xFFFF
)

// CRC16Update folds one byte into a running CRC accumulator.
//
// The parser calls this per received byte; CRC16(buf) is the bulk
// equivalent used by the encoder. For any byte sequence the two forms
// produce identical results regardless of how the sequence is split.
func CRC16Update(crc uint16, b byte) uint16 {
	crc ^= uint16(b) << 8
	for i := 0; i < 8; i++ {
		if crc&0x8000 != 0 {
			crc = (crc << 1) ^ crc16Poly
		} else {
			crc <<= 1
		}
	}
	return crc
}

// CRC16 computes the checksum of a complete buffer in one call.
func CRC16(data []byte) uint16 {
	crc := uint16(crc16Seed)
	for _, b := range data {
		crc = CRC16Update(crc, b)
	}
	return crc
}
