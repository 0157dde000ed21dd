package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chadboyda/longform-video-generator/internal/domain/timeline"
	"github.com/chadboyda/longform-video-generator/internal/ports"
	"github.com/chadboyda/longform-video-generator/internal/types"
)

const (
	voPath    = "/media/vo.m4a"
	musicPath = "/media/music.mp3"
	workDir   = "/work"
	outPath   = "/out/final.mp4"
)

var clipPaths = []string{"/media/a.mp4", "/media/b.mp4", "/media/c.mp4"}

func sec(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func trimmedName(i int) string {
	return filepath.Join(workDir, fmt.Sprintf("seg_%03d_trim.mp4", i))
}

// Narration: 0-3, 3-9, 9-12. Sources run 4s, 5s and 3s, so the middle
// segment's 6s window is capped by its 5s source and the joined video lands
// at 11s against a 12s voiceover.
func testSegments() []types.VoiceoverSegment {
	return []types.VoiceoverSegment{
		{Text: "intro", Start: 0, End: 3},
		{Text: "middle", Start: 3, End: 9},
		{Text: "ending", Start: 9, End: 12},
	}
}

func testProber() *fakeProber {
	infos := map[string]types.MediaInfo{
		voPath:         {Duration: sec(12)},
		"/media/a.mp4": {Duration: sec(4), Width: 1920, Height: 1080, FrameRate: 30},
		"/media/b.mp4": {Duration: sec(5), Width: 1920, Height: 1080, FrameRate: 30},
		"/media/c.mp4": {Duration: sec(3), Width: 1920, Height: 1080, FrameRate: 30},
		outPath:        {Duration: sec(12.5)},
	}
	infos[filepath.Join(workDir, "concat.mp4")] = types.MediaInfo{Duration: sec(11), Width: 1920, Height: 1080, FrameRate: 30}
	return &fakeProber{infos: infos, errs: map[string]error{}}
}

func testTranscoder() *fakeTranscoder {
	return &fakeTranscoder{
		failTrim: map[string]error{},
		stats:    types.AudioStats{PeakDB: -3.1, InputLUFS: -16.4},
	}
}

func testInput() Input {
	return Input{
		Segments:      testSegments(),
		Clips:         clipPaths,
		VoiceoverPath: voPath,
		MusicPath:     musicPath,
		WorkDir:       workDir,
		OutputPath:    outPath,
	}
}

func newUsecase(pr *fakeProber, tr *fakeTranscoder, cfg Config) Usecase {
	return New(Deps{Prober: pr, Transcoder: tr, Log: zerolog.Nop()}, cfg)
}

func TestRun_PadsShortVideoWithOutro(t *testing.T) {
	t.Parallel()

	pr := testProber()
	tr := testTranscoder()
	uc := newUsecase(pr, tr, DefaultConfig())

	res, err := uc.Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(tr.trims) != 3 {
		t.Fatalf("expected 3 trims, got %d", len(tr.trims))
	}
	wantCuts := map[string]time.Duration{
		"/media/a.mp4": sec(3), // narration window
		"/media/b.mp4": sec(5), // capped by the 5s source
		"/media/c.mp4": sec(3),
	}
	for _, tc := range tr.trims {
		if got, want := tc.limit, wantCuts[tc.src]; got != want {
			t.Fatalf("trim %s: cut %s, want %s", tc.src, got, want)
		}
	}

	if len(tr.concats) != 1 {
		t.Fatalf("expected 1 concat, got %d", len(tr.concats))
	}
	wantParts := []string{trimmedName(0), trimmedName(1), trimmedName(2)}
	for i, p := range tr.concats[0] {
		if p != wantParts[i] {
			t.Fatalf("concat part %d: %s, want %s", i, p, wantParts[i])
		}
	}

	if len(tr.fades) != 1 {
		t.Fatalf("expected 1 fade, got %d", len(tr.fades))
	}
	if tr.fades[0].start != sec(9.5) || tr.fades[0].dur != sec(1.5) {
		t.Fatalf("fade at %s for %s, want 9.5s for 1.5s", tr.fades[0].start, tr.fades[0].dur)
	}
	if len(tr.fills) != 1 {
		t.Fatalf("expected 1 black fill, got %d", len(tr.fills))
	}
	fill := tr.fills[0]
	if fill.Width != 1920 || fill.Height != 1080 || fill.FrameRate != 30 {
		t.Fatalf("fill geometry %dx%d@%g, want source geometry", fill.Width, fill.Height, fill.FrameRate)
	}
	if fill.Duration != sec(1.5) {
		t.Fatalf("fill duration %s, want 1.5s (1s gap + 0.5s margin)", fill.Duration)
	}
	if len(tr.splices) != 1 {
		t.Fatalf("expected 1 splice, got %d", len(tr.splices))
	}
	if tr.splices[0].limit != sec(12.5) {
		t.Fatalf("splice limit %s, want 12.5s", tr.splices[0].limit)
	}

	if len(tr.mixes) != 1 {
		t.Fatalf("expected 1 mix, got %d", len(tr.mixes))
	}
	mix := tr.mixes[0]
	if mix.spec.VideoPath != filepath.Join(workDir, "padded.mp4") {
		t.Fatalf("mix video %s, want padded output", mix.spec.VideoPath)
	}
	if mix.spec.VoicePath != voPath || mix.spec.MusicPath != musicPath {
		t.Fatalf("mix audio inputs %s / %s", mix.spec.VoicePath, mix.spec.MusicPath)
	}
	if mix.spec.Limit != sec(12.5) {
		t.Fatalf("mix limit %s, want final video duration", mix.spec.Limit)
	}
	if mix.dst != outPath {
		t.Fatalf("mix wrote %s, want %s", mix.dst, outPath)
	}
	if len(tr.analyzed) != 1 || tr.analyzed[0] != outPath {
		t.Fatalf("expected audio analysis of %s, got %v", outPath, tr.analyzed)
	}

	if res.OutputPath != outPath {
		t.Fatalf("result output %s", res.OutputPath)
	}
	if res.VoiceoverDuration != sec(12) || res.VideoDuration != sec(12.5) {
		t.Fatalf("durations vo=%s video=%s", res.VoiceoverDuration, res.VideoDuration)
	}
	if len(res.SkippedSegments) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("unexpected skips %v or warnings %v", res.SkippedSegments, res.Warnings)
	}
	if res.FailedStage != "" {
		t.Fatalf("failed stage %q on success", res.FailedStage)
	}
}

func TestRun_ExactFitSkipsOutro(t *testing.T) {
	t.Parallel()

	pr := testProber()
	pr.infos[filepath.Join(workDir, "concat.mp4")] = types.MediaInfo{Duration: sec(12), Width: 1920, Height: 1080, FrameRate: 30}
	pr.infos[outPath] = types.MediaInfo{Duration: sec(12)}
	tr := testTranscoder()
	in := testInput()
	in.MusicPath = ""

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), in)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(tr.fades)+len(tr.fills)+len(tr.splices) != 0 {
		t.Fatalf("outro ran on an exact fit: %d fades, %d fills, %d splices",
			len(tr.fades), len(tr.fills), len(tr.splices))
	}
	mix := tr.mixes[0]
	if mix.spec.VideoPath != filepath.Join(workDir, "concat.mp4") {
		t.Fatalf("mix video %s, want concat output", mix.spec.VideoPath)
	}
	if mix.spec.MusicPath != "" {
		t.Fatalf("music path %q, want none", mix.spec.MusicPath)
	}
	if mix.spec.Limit != sec(12) {
		t.Fatalf("mix limit %s, want 12s", mix.spec.Limit)
	}
	if res.VideoDuration != sec(12) {
		t.Fatalf("video duration %s", res.VideoDuration)
	}
}

func TestRun_TrimFailureSkipsSegment(t *testing.T) {
	t.Parallel()

	pr := testProber()
	pr.infos[filepath.Join(workDir, "concat.mp4")] = types.MediaInfo{Duration: sec(12), Width: 1920, Height: 1080, FrameRate: 30}
	tr := testTranscoder()
	tr.failTrim["/media/b.mp4"] = errors.New("encoder crashed")

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("expected degraded run, got %v", err)
	}
	if len(res.SkippedSegments) != 1 || res.SkippedSegments[0] != 1 {
		t.Fatalf("skipped %v, want [1]", res.SkippedSegments)
	}
	wantParts := []string{trimmedName(0), trimmedName(2)}
	if len(tr.concats) != 1 || len(tr.concats[0]) != 2 {
		t.Fatalf("concat parts %v", tr.concats)
	}
	for i, p := range tr.concats[0] {
		if p != wantParts[i] {
			t.Fatalf("concat part %d: %s, want %s", i, p, wantParts[i])
		}
	}
	if !hasWarning(res.Warnings, "trim segment 1") {
		t.Fatalf("warnings %v lack the skipped segment", res.Warnings)
	}
}

func TestRun_TrimFailureAborts(t *testing.T) {
	t.Parallel()

	pr := testProber()
	tr := testTranscoder()
	tr.failTrim["/media/b.mp4"] = errors.New("encoder crashed")
	cfg := DefaultConfig()
	cfg.AbortOnTrimFailure = true

	res, err := newUsecase(pr, tr, cfg).Run(context.Background(), testInput())
	var tf TrimFailure
	if !errors.As(err, &tf) {
		t.Fatalf("expected TrimFailure, got %v", err)
	}
	if tf.Segment != 1 {
		t.Fatalf("failed segment %d, want 1", tf.Segment)
	}
	if res.FailedStage != StageTrim {
		t.Fatalf("failed stage %q, want %q", res.FailedStage, StageTrim)
	}
	if len(tr.concats) != 0 {
		t.Fatalf("concat ran after an aborting trim failure")
	}
}

func TestRun_NoValidClipsFailsConcatenation(t *testing.T) {
	t.Parallel()

	pr := testProber()
	tr := testTranscoder()
	for _, p := range clipPaths {
		tr.failTrim[p] = errors.New("encoder crashed")
	}

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), testInput())
	var cerr ConcatenationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConcatenationError, got %v", err)
	}
	if !strings.Contains(cerr.Error(), "no valid clips") {
		t.Fatalf("unexpected message %q", cerr.Error())
	}
	if res.FailedStage != StageConcatenate {
		t.Fatalf("failed stage %q", res.FailedStage)
	}
	if len(res.SkippedSegments) != 3 {
		t.Fatalf("skipped %v, want all three", res.SkippedSegments)
	}
}

func TestRun_ProbeFailureFallsBackToEstimate(t *testing.T) {
	t.Parallel()

	pr := testProber()
	pr.errs["/media/b.mp4"] = &ports.ProbeError{Path: "/media/b.mp4", Err: errors.New("moov atom not found")}
	tr := testTranscoder()

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var cut time.Duration
	for _, tc := range tr.trims {
		if tc.src == "/media/b.mp4" {
			cut = tc.limit
		}
	}
	// 6s narration window clamped to the assumed 4s source.
	if cut != sec(4) {
		t.Fatalf("cut %s, want the 4s fallback estimate", cut)
	}
	if !hasWarning(res.Warnings, "assuming 4.0s") {
		t.Fatalf("warnings %v lack the probe fallback", res.Warnings)
	}
	if len(res.SkippedSegments) != 0 {
		t.Fatalf("segment skipped on a recoverable probe failure: %v", res.SkippedSegments)
	}
}

func TestRun_ProbeFailureSkipsWhenFallbackDisabled(t *testing.T) {
	t.Parallel()

	pr := testProber()
	pr.errs["/media/b.mp4"] = &ports.ProbeError{Path: "/media/b.mp4", Err: errors.New("moov atom not found")}
	pr.infos[filepath.Join(workDir, "concat.mp4")] = types.MediaInfo{Duration: sec(12), Width: 1920, Height: 1080, FrameRate: 30}
	tr := testTranscoder()
	cfg := DefaultConfig()
	cfg.ProbeFallback = 0

	res, err := newUsecase(pr, tr, cfg).Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.SkippedSegments) != 1 || res.SkippedSegments[0] != 1 {
		t.Fatalf("skipped %v, want [1]", res.SkippedSegments)
	}
	for _, tc := range tr.trims {
		if tc.src == "/media/b.mp4" {
			t.Fatalf("unprobeable clip was still trimmed")
		}
	}
}

func TestRun_VoiceoverProbeFallsBackToNarrationEnd(t *testing.T) {
	t.Parallel()

	pr := testProber()
	pr.errs[voPath] = &ports.ProbeError{Path: voPath, Err: errors.New("unreadable")}
	tr := testTranscoder()

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.VoiceoverDuration != sec(12) {
		t.Fatalf("voiceover duration %s, want the 12s narration end", res.VoiceoverDuration)
	}
	if !hasWarning(res.Warnings, "narration end") {
		t.Fatalf("warnings %v lack the voiceover fallback", res.Warnings)
	}
}

func TestRun_OutroFailureShipsUnpaddedVideo(t *testing.T) {
	t.Parallel()

	pr := testProber()
	pr.infos[outPath] = types.MediaInfo{Duration: sec(11)}
	tr := testTranscoder()
	tr.failFade = errors.New("filter graph rejected")

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("expected degraded run, got %v", err)
	}
	mix := tr.mixes[0]
	if mix.spec.VideoPath != filepath.Join(workDir, "concat.mp4") {
		t.Fatalf("mix video %s, want the unpadded concat output", mix.spec.VideoPath)
	}
	if mix.spec.Limit != sec(11) {
		t.Fatalf("mix limit %s, want the unpadded 11s", mix.spec.Limit)
	}
	if !hasWarning(res.Warnings, "outro synthesis") {
		t.Fatalf("warnings %v lack the outro failure", res.Warnings)
	}
	if res.VideoDuration != sec(11) {
		t.Fatalf("video duration %s", res.VideoDuration)
	}
}

func TestRun_UnknownGeometryFillsAtDefault(t *testing.T) {
	t.Parallel()

	pr := testProber()
	pr.infos[filepath.Join(workDir, "concat.mp4")] = types.MediaInfo{Duration: sec(11)}
	tr := testTranscoder()

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	fill := tr.fills[0]
	if fill.Width != 1280 || fill.Height != 720 || fill.FrameRate != 24 {
		t.Fatalf("fill geometry %dx%d@%g, want 1280x720@24", fill.Width, fill.Height, fill.FrameRate)
	}
	if !hasWarning(res.Warnings, "geometry unknown") {
		t.Fatalf("warnings %v lack the geometry fallback", res.Warnings)
	}
}

func TestRun_MixFailureIsFatal(t *testing.T) {
	t.Parallel()

	pr := testProber()
	tr := testTranscoder()
	tr.failMix = errors.New("unknown encoder aac")

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), testInput())
	var merr AudioMixError
	if !errors.As(err, &merr) {
		t.Fatalf("expected AudioMixError, got %v", err)
	}
	if res.FailedStage != StageMix {
		t.Fatalf("failed stage %q", res.FailedStage)
	}
	if res.OutputPath != "" {
		t.Fatalf("output path %q reported for a failed mix", res.OutputPath)
	}
}

func TestRun_SilentMixFailsValidation(t *testing.T) {
	t.Parallel()

	pr := testProber()
	tr := testTranscoder()
	tr.stats = types.AudioStats{PeakDB: -91, InputLUFS: -55}

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), testInput())
	var merr AudioMixError
	if !errors.As(err, &merr) {
		t.Fatalf("expected AudioMixError, got %v", err)
	}
	if !strings.Contains(err.Error(), "silent") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if res.FailedStage != StageMix {
		t.Fatalf("failed stage %q", res.FailedStage)
	}
}

func TestRun_HotMixOnlyWarns(t *testing.T) {
	t.Parallel()

	pr := testProber()
	tr := testTranscoder()
	tr.stats = types.AudioStats{PeakDB: -0.2, InputLUFS: -14}

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !hasWarning(res.Warnings, "may clip") {
		t.Fatalf("warnings %v lack the clipping notice", res.Warnings)
	}
}

func TestRun_AnalysisFailureOnlyWarns(t *testing.T) {
	t.Parallel()

	pr := testProber()
	tr := testTranscoder()
	tr.statsErr = errors.New("astats unavailable")

	res, err := newUsecase(pr, tr, DefaultConfig()).Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !hasWarning(res.Warnings, "audio validation unavailable") {
		t.Fatalf("warnings %v lack the analysis failure", res.Warnings)
	}
}

// Completion order is forced to run backwards: each trim blocks until every
// higher-indexed trim has finished. Concatenation must still receive the
// parts in narration order.
func TestRun_ConcatOrderIgnoresCompletionOrder(t *testing.T) {
	t.Parallel()

	pr := testProber()
	tr := testTranscoder()

	idx := make(map[string]int, len(clipPaths))
	for i, p := range clipPaths {
		idx[p] = i
	}
	done := make([]chan struct{}, len(clipPaths))
	for i := range done {
		done[i] = make(chan struct{})
	}
	tr.beforeTrimReturn = func(src string) {
		i := idx[src]
		if i+1 < len(done) {
			<-done[i+1]
		}
		close(done[i])
	}

	cfg := DefaultConfig()
	cfg.Parallelism = len(clipPaths)

	if _, err := newUsecase(pr, tr, cfg).Run(context.Background(), testInput()); err != nil {
		t.Fatalf("run: %v", err)
	}
	wantParts := []string{trimmedName(0), trimmedName(1), trimmedName(2)}
	for i, p := range tr.concats[0] {
		if p != wantParts[i] {
			t.Fatalf("concat part %d: %s, want %s", i, p, wantParts[i])
		}
	}
}

func TestRun_QualityGateRejectsGlitchedClip(t *testing.T) {
	t.Parallel()

	pr := testProber()
	pr.infos[filepath.Join(workDir, "concat.mp4")] = types.MediaInfo{Duration: sec(12), Width: 1920, Height: 1080, FrameRate: 30}
	tr := testTranscoder()
	gate := fakeGate{reports: map[string]types.GlitchReport{
		"/media/b.mp4": {Blackouts: []types.Span{{Start: sec(1), End: sec(2)}}},
	}}
	cfg := DefaultConfig()
	cfg.ReviewClips = true

	uc := New(Deps{Prober: pr, Transcoder: tr, Gate: gate, Log: zerolog.Nop()}, cfg)
	res, err := uc.Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.SkippedSegments) != 1 || res.SkippedSegments[0] != 1 {
		t.Fatalf("skipped %v, want [1]", res.SkippedSegments)
	}
	if !hasWarning(res.Warnings, "quality gate") {
		t.Fatalf("warnings %v lack the gate rejection", res.Warnings)
	}
	for _, tc := range tr.trims {
		if tc.src == "/media/b.mp4" {
			t.Fatalf("rejected clip was still trimmed")
		}
	}
}

func TestRun_MismatchedInputsFailBuild(t *testing.T) {
	t.Parallel()

	in := testInput()
	in.Clips = clipPaths[:2]

	res, err := newUsecase(testProber(), testTranscoder(), DefaultConfig()).Run(context.Background(), in)
	var merr timeline.MismatchedInputError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MismatchedInputError, got %v", err)
	}
	if res.FailedStage != StageBuild {
		t.Fatalf("failed stage %q", res.FailedStage)
	}
}

func TestRun_OverrunTrimmedWhenEnabled(t *testing.T) {
	t.Parallel()

	pr := testProber()
	pr.infos[filepath.Join(workDir, "concat.mp4")] = types.MediaInfo{Duration: sec(20), Width: 1920, Height: 1080, FrameRate: 30}
	tr := testTranscoder()
	cfg := DefaultConfig()
	cfg.TrimOverrun = true

	_, err := newUsecase(pr, tr, cfg).Run(context.Background(), testInput())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(tr.splices) != 1 {
		t.Fatalf("expected 1 overrun splice, got %d", len(tr.splices))
	}
	sp := tr.splices[0]
	if len(sp.parts) != 1 || sp.parts[0] != filepath.Join(workDir, "concat.mp4") {
		t.Fatalf("splice parts %v", sp.parts)
	}
	if sp.limit != sec(12.5) {
		t.Fatalf("splice limit %s, want voiceover + margin", sp.limit)
	}
	if tr.mixes[0].spec.VideoPath != filepath.Join(workDir, "overrun_trim.mp4") {
		t.Fatalf("mix video %s, want the trimmed video", tr.mixes[0].spec.VideoPath)
	}
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

type fakeProber struct {
	infos map[string]types.MediaInfo
	errs  map[string]error
}

func (f *fakeProber) Probe(_ context.Context, path string) (types.MediaInfo, error) {
	if err, ok := f.errs[path]; ok {
		return types.MediaInfo{}, err
	}
	info, ok := f.infos[path]
	if !ok {
		return types.MediaInfo{}, &ports.ProbeError{Path: path, Err: errors.New("no fixture")}
	}
	return info, nil
}

type trimCall struct {
	src   string
	limit time.Duration
	dst   string
}

type fadeCall struct {
	src   string
	start time.Duration
	dur   time.Duration
	dst   string
}

type spliceCall struct {
	parts []string
	limit time.Duration
	dst   string
}

type mixCall struct {
	spec types.MixSpec
	dst  string
}

type fakeTranscoder struct {
	mu       sync.Mutex
	trims    []trimCall
	concats  [][]string
	fades    []fadeCall
	fills    []types.BlackFillSpec
	splices  []spliceCall
	mixes    []mixCall
	analyzed []string

	failTrim   map[string]error
	failConcat error
	failFade   error
	failFill   error
	failSplice error
	failMix    error

	stats    types.AudioStats
	statsErr error

	beforeTrimReturn func(src string)
}

func (f *fakeTranscoder) TrimClip(_ context.Context, src string, limit time.Duration, dst string) error {
	if f.beforeTrimReturn != nil {
		f.beforeTrimReturn(src)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failTrim[src]; err != nil {
		return err
	}
	f.trims = append(f.trims, trimCall{src: src, limit: limit, dst: dst})
	return nil
}

func (f *fakeTranscoder) Concat(_ context.Context, parts []string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.concats = append(f.concats, append([]string(nil), parts...))
	return f.failConcat
}

func (f *fakeTranscoder) FadeOutTail(_ context.Context, src string, start, dur time.Duration, dst string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFade != nil {
		return f.failFade
	}
	f.fades = append(f.fades, fadeCall{src: src, start: start, dur: dur, dst: dst})
	return nil
}

func (f *fakeTranscoder) RenderBlackFill(_ context.Context, spec types.BlackFillSpec, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFill != nil {
		return f.failFill
	}
	f.fills = append(f.fills, spec)
	return nil
}

func (f *fakeTranscoder) SpliceTo(_ context.Context, parts []string, limit time.Duration, dst string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSplice != nil {
		return f.failSplice
	}
	f.splices = append(f.splices, spliceCall{parts: append([]string(nil), parts...), limit: limit, dst: dst})
	return nil
}

func (f *fakeTranscoder) MixAudio(_ context.Context, spec types.MixSpec, dst string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMix != nil {
		return f.failMix
	}
	f.mixes = append(f.mixes, mixCall{spec: spec, dst: dst})
	return nil
}

func (f *fakeTranscoder) AnalyzeAudio(_ context.Context, path string) (types.AudioStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyzed = append(f.analyzed, path)
	return f.stats, f.statsErr
}

type fakeGate struct {
	reports map[string]types.GlitchReport
	errs    map[string]error
}

func (f fakeGate) Review(_ context.Context, path string) (types.GlitchReport, error) {
	if err, ok := f.errs[path]; ok {
		return types.GlitchReport{}, err
	}
	return f.reports[path], nil
}
