package audio

import "encoding/binary"

// DefaultSampleRate is the sample rate of the upstream realtime audio
// stream: mono 16-bit little-endian PCM at 24 kHz.
const DefaultSampleRate = 24000

const (
	wavHeaderSize = 44
	numChannels   = 1
	bitsPerSample = 16
)

// EncodeWAV wraps raw mono 16-bit little-endian PCM in a RIFF/WAVE
// container. The output is a pure function of (pcm, sampleRate): identical
// input yields byte-identical output. A trailing odd byte is dropped so
// the data chunk always holds whole samples.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	dataSize := (len(pcm) / 2) * 2
	blockAlign := numChannels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	buf := make([]byte, wavHeaderSize+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], numChannels)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	copy(buf[wavHeaderSize:], pcm[:dataSize])
	return buf
}
