package constants

// SummaryTemplate is rendered with fasttemplate using "{{ " and " }}" tags.
const SummaryTemplate = `Jank report {{ run_id }}
Measurement: {{ kind }} (expected frames per iteration: {{ expected_frames }})
Iterations: {{ iterations }} ({{ insufficient }} with too few frames)
Total frames: {{ total_frames }}
Janky frames: mean {{ mean_janky }}, max {{ max_janky }}
Jank percentage: mean {{ mean_janky_percent }}%
90th percentile: mean {{ mean_p90 }}ms, max {{ max_p90 }}ms
95th percentile: mean {{ mean_p95 }}ms, max {{ max_p95 }}ms
99th percentile: mean {{ mean_p99 }}ms, max {{ max_p99 }}ms`
