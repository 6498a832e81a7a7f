// ABOUTME: Plays a local MP3 file through the playback engine
// ABOUTME: Verifies the audio output path without a headset
package main

import (
	"encoding/binary"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/go-mp3"

	"github.com/visorlabs/visor-go/internal/audio"
	"github.com/visorlabs/visor-go/internal/player"
)

var (
	file = flag.String("file", "", "MP3 file to play")
)

func main() {
	flag.Parse()

	if *file == "" {
		log.Fatalf("usage: playback-check -file song.mp3")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("error opening %s: %v", *file, err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		log.Fatalf("error decoding %s: %v", *file, err)
	}

	// go-mp3 always yields 16-bit stereo PCM.
	format := audio.Format{
		SampleRate: decoder.SampleRate(),
		Channels:   2,
		BitDepth:   audio.DefaultBitDepth,
	}
	log.Printf("Playing %s (%d Hz)", *file, format.SampleRate)

	engine, err := player.NewEngine(format)
	if err != nil {
		log.Fatalf("error opening playback: %v", err)
	}
	defer engine.Close()

	// Push ~100ms at a time, pacing against the buffer level so the
	// ring never overflows and drops samples.
	chunkFrames := format.SampleRate / 10
	buf := make([]byte, chunkFrames*format.Channels*2)
	samples := make([]int16, chunkFrames*format.Channels)

	for {
		if engine.BufferedFrames() > format.SampleRate/2 {
			time.Sleep(25 * time.Millisecond)
			continue
		}

		n, err := io.ReadFull(decoder, buf)
		if n > 0 {
			count := n / 2
			for i := 0; i < count; i++ {
				samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
			}
			engine.Push(samples[:count])
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			log.Fatalf("error reading PCM: %v", err)
		}
	}

	// Let the tail drain before closing.
	for engine.BufferedFrames() > 0 {
		time.Sleep(25 * time.Millisecond)
	}
	log.Printf("Done (%d underruns)", engine.Underruns())
}
