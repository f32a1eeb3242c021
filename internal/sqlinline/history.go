package sqlinline

const QEnsureHistoryTable = `--sql deb44c0a-7735-4644-9276-9327d9bd4348
create table if not exists generation_history (
  key        text primary key,
  entries    jsonb not null default '[]'::jsonb,
  updated_at timestamptz not null default now()
);
`

const QSelectHistory = `--sql 939587b0-811b-48c2-bbdd-47786171dd54
select entries
from generation_history
where key = $1::text
limit 1;
`

const QUpsertHistory = `--sql f177a72c-622c-40c4-a2f9-5b3662e69a87
insert into generation_history(key, entries, updated_at)
values ($1::text, $2::jsonb, now())
on conflict (key) do update
set entries = excluded.entries,
    updated_at = now();
`
